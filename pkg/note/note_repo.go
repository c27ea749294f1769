package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrNoteNotFound = errors.New("note does not exist")

type Repo interface {
	Store(ctx context.Context, userId int, n Note) error
	GetAll(ctx context.Context, userId int) ([]Note, error)
	Get(ctx context.Context, userId int, id string) (Note, error)
	ListByDateRange(ctx context.Context, userId int, from, to time.Time) ([]Note, error)
	Update(ctx context.Context, userId int, n Note) (bool, error)
	Delete(ctx context.Context, userId int, id string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const noteColumns = `id, date, title, content, tags, shared`

func (r *RepoImpl) Store(ctx context.Context, userId int, n Note) error {
	query := `INSERT INTO note (` + noteColumns + `, user_id) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.Date.Format("2006-01-02"),
		nullString(n.Title),
		n.Content,
		strings.Join(n.Tags, ","),
		n.Shared,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not store note: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Note, error) {
	query := `SELECT ` + noteColumns + ` FROM note WHERE user_id = ? ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query notes: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id string) (Note, error) {
	query := `SELECT ` + noteColumns + ` FROM note WHERE user_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, userId, id)
	n, err := scanNote(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNoteNotFound
	}
	return n, err
}

func (r *RepoImpl) ListByDateRange(ctx context.Context, userId int, from, to time.Time) ([]Note, error) {
	query := `SELECT ` + noteColumns + ` FROM note WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query, userId, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		err := fmt.Errorf("could not query notes by date range: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func (r *RepoImpl) Update(ctx context.Context, userId int, n Note) (bool, error) {
	query := `UPDATE note SET date = ?, title = ?, content = ?, tags = ?, shared = ? WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		n.Date.Format("2006-01-02"),
		nullString(n.Title),
		n.Content,
		strings.Join(n.Tags, ","),
		n.Shared,
		n.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update note: %w", err)
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM note WHERE id = ? AND user_id = ?`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete note: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func scanNotes(rows *sql.Rows) ([]Note, error) {
	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return notes, nil
}

func scanNote(scan func(dest ...any) error) (Note, error) {
	var n Note
	var date string
	var title, tags sql.NullString
	err := scan(&n.ID, &date, &title, &n.Content, &tags, &n.Shared)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, err
	}
	if err != nil {
		err := fmt.Errorf("could not scan note: %w", err)
		log.Error(err)
		return Note{}, err
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		err := fmt.Errorf("could not parse note date: %w", err)
		log.Error(err)
		return Note{}, err
	}
	n.Date = parsed
	n.Title = title.String
	if tags.Valid && tags.String != "" {
		n.Tags = strings.Split(tags.String, ",")
	}
	return n, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
