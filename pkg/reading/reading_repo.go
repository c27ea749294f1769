package reading

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrItemNotFound = errors.New("reading item does not exist")

type Repo interface {
	Store(ctx context.Context, userId int, item Item) error
	GetAll(ctx context.Context, userId int) ([]Item, error)
	Get(ctx context.Context, userId int, id string) (Item, error)
	Update(ctx context.Context, userId int, item Item) (bool, error)
	Delete(ctx context.Context, userId int, id string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const itemColumns = `id, title, url, content, item_type, status, priority, tags, added_date, completed_date, notes`

func (r *RepoImpl) Store(ctx context.Context, userId int, item Item) error {
	query := `INSERT INTO reading_item (` + itemColumns + `, user_id)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		nullString(item.URL),
		nullString(item.Content),
		string(item.ItemType),
		string(item.Status),
		string(item.Priority),
		strings.Join(item.Tags, ","),
		item.AddedDate.Format("2006-01-02"),
		dateParam(item.CompletedDate),
		nullString(item.Notes),
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not store reading item: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM reading_item WHERE user_id = ? ORDER BY added_date DESC`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query reading items: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return items, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id string) (Item, error) {
	query := `SELECT ` + itemColumns + ` FROM reading_item WHERE user_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, userId, id)
	item, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return item, err
}

func (r *RepoImpl) Update(ctx context.Context, userId int, item Item) (bool, error) {
	query := `UPDATE reading_item SET
				  title = ?,
				  url = ?,
				  content = ?,
				  item_type = ?,
				  status = ?,
				  priority = ?,
				  tags = ?,
				  added_date = ?,
				  completed_date = ?,
				  notes = ?
			  WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		item.Title,
		nullString(item.URL),
		nullString(item.Content),
		string(item.ItemType),
		string(item.Status),
		string(item.Priority),
		strings.Join(item.Tags, ","),
		item.AddedDate.Format("2006-01-02"),
		dateParam(item.CompletedDate),
		nullString(item.Notes),
		item.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update reading item: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reading_item WHERE id = ? AND user_id = ?`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete reading item: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func scanItem(scan func(dest ...any) error) (Item, error) {
	var item Item
	var itemType, status, priority, addedDate string
	var url, content, tags, completedDate, notes sql.NullString
	err := scan(&item.ID, &item.Title, &url, &content, &itemType, &status, &priority, &tags, &addedDate, &completedDate, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, err
	}
	if err != nil {
		err := fmt.Errorf("could not scan reading item: %w", err)
		log.Error(err)
		return Item{}, err
	}
	item.ItemType = ItemType(itemType)
	item.Status = Status(status)
	item.Priority = Priority(priority)
	item.URL = url.String
	item.Content = content.String
	item.Notes = notes.String
	if tags.Valid && tags.String != "" {
		item.Tags = strings.Split(tags.String, ",")
	}
	if item.AddedDate, err = time.Parse("2006-01-02", addedDate); err != nil {
		return Item{}, fmt.Errorf("could not parse added date: %w", err)
	}
	if completedDate.Valid {
		parsed, err := time.Parse("2006-01-02", completedDate.String)
		if err != nil {
			return Item{}, fmt.Errorf("could not parse completed date: %w", err)
		}
		item.CompletedDate = &parsed
	}
	return item, nil
}

func dateParam(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format("2006-01-02")
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
