package goal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrGoalNotFound = errors.New("goal does not exist")

type Repo interface {
	Store(ctx context.Context, userId int, g Goal) error
	GetAll(ctx context.Context, userId int) ([]Goal, error)
	Get(ctx context.Context, userId int, id string) (Goal, error)
	Update(ctx context.Context, userId int, g Goal) (bool, error)
	Delete(ctx context.Context, userId int, id string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const goalColumns = `id, title, description, period, start_date, end_date, status, progress, tags`

func (r *RepoImpl) Store(ctx context.Context, userId int, g Goal) error {
	query := `INSERT INTO goal (` + goalColumns + `, user_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.Title,
		nullString(g.Description),
		string(g.Period),
		g.StartDate.Format("2006-01-02"),
		g.EndDate.Format("2006-01-02"),
		string(g.Status),
		g.Progress,
		strings.Join(g.Tags, ","),
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not store goal: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goal WHERE user_id = ? ORDER BY end_date`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query goals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return goals, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id string) (Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goal WHERE user_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, userId, id)
	g, err := scanGoal(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrGoalNotFound
	}
	return g, err
}

func (r *RepoImpl) Update(ctx context.Context, userId int, g Goal) (bool, error) {
	query := `UPDATE goal SET
				  title = ?,
				  description = ?,
				  period = ?,
				  start_date = ?,
				  end_date = ?,
				  status = ?,
				  progress = ?,
				  tags = ?
			  WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		g.Title,
		nullString(g.Description),
		string(g.Period),
		g.StartDate.Format("2006-01-02"),
		g.EndDate.Format("2006-01-02"),
		string(g.Status),
		g.Progress,
		strings.Join(g.Tags, ","),
		g.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update goal: %w", err)
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM goal WHERE id = ? AND user_id = ?`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete goal: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func scanGoal(scan func(dest ...any) error) (Goal, error) {
	var g Goal
	var period, status, startDate, endDate string
	var description, tags sql.NullString
	err := scan(&g.ID, &g.Title, &description, &period, &startDate, &endDate, &status, &g.Progress, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, err
	}
	if err != nil {
		err := fmt.Errorf("could not scan goal: %w", err)
		log.Error(err)
		return Goal{}, err
	}
	g.Period = Period(period)
	g.Status = Status(status)
	g.Description = description.String
	if g.StartDate, err = time.Parse("2006-01-02", startDate); err != nil {
		return Goal{}, fmt.Errorf("could not parse goal start date: %w", err)
	}
	if g.EndDate, err = time.Parse("2006-01-02", endDate); err != nil {
		return Goal{}, fmt.Errorf("could not parse goal end date: %w", err)
	}
	if tags.Valid && tags.String != "" {
		g.Tags = strings.Split(tags.String, ",")
	}
	return g, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
