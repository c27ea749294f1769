package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrTaskNotFound = errors.New("task does not exist")

type Repo interface {
	Store(ctx context.Context, userId int, t Task) error
	GetAll(ctx context.Context, userId int) ([]Task, error)
	Get(ctx context.Context, userId int, id string) (Task, error)
	FindByText(ctx context.Context, userId int, text string) (Task, error)
	ListOverdue(ctx context.Context, userId int, today time.Time) ([]Task, error)
	// Update persists the editable task fields. Applied rates and ledger
	// linkage are written only by the billing repository, completion flags
	// only by UpdateCompletion.
	Update(ctx context.Context, userId int, t Task) (bool, error)
	// UpdateCompletion writes done, approved and approved_at in one statement
	// so a reader never sees the flag and its timestamp out of step.
	UpdateCompletion(ctx context.Context, userId int, taskId string, done, approved bool, approvedAt *time.Time) (bool, error)
	Delete(ctx context.Context, userId int, id string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const taskColumns = `id, content, priority, due_date, done, assigned_to, project_id, hours_spent, billable,
	cost_rate_override, bill_rate_override, hourly_rate_override,
	applied_cost_rate, applied_bill_rate, applied_hourly_rate,
	approved, approved_at, income_tx_id, expense_tx_id`

func (r *RepoImpl) Store(ctx context.Context, userId int, t Task) error {
	query := `INSERT INTO task (` + taskColumns + `, user_id)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Content,
		string(t.Priority),
		dateParam(t.DueDate),
		t.Done,
		nullString(t.AssignedTo),
		nullString(t.ProjectID),
		t.HoursSpent,
		t.Billable,
		nullInt(t.CostRateOverride),
		nullInt(t.BillRateOverride),
		nullInt(t.HourlyRateOverride),
		nullInt(t.AppliedCostRate),
		nullInt(t.AppliedBillRate),
		nullInt(t.AppliedHourlyRate),
		t.Approved,
		timeParam(t.ApprovedAt),
		nullString(t.IncomeTxID),
		nullString(t.ExpenseTxID),
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not store task: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query tasks: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return tasks, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id string) (Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task WHERE user_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, userId, id)
	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	return t, err
}

func (r *RepoImpl) FindByText(ctx context.Context, userId int, text string) (Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task WHERE user_id = ? AND LOWER(content) LIKE LOWER(?) LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, userId, "%"+text+"%")
	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	return t, err
}

func (r *RepoImpl) ListOverdue(ctx context.Context, userId int, today time.Time) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task
			  WHERE user_id = ? AND due_date IS NOT NULL AND due_date < ? AND done = ?
			  ORDER BY due_date ASC`
	rows, err := r.db.QueryContext(ctx, query, userId, today.Format("2006-01-02"), false)
	if err != nil {
		err := fmt.Errorf("could not query overdue tasks: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *RepoImpl) Update(ctx context.Context, userId int, t Task) (bool, error) {
	query := `UPDATE task SET
				  content = ?,
				  priority = ?,
				  due_date = ?,
				  assigned_to = ?,
				  project_id = ?,
				  hours_spent = ?,
				  billable = ?,
				  cost_rate_override = ?,
				  bill_rate_override = ?,
				  hourly_rate_override = ?
			  WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		t.Content,
		string(t.Priority),
		dateParam(t.DueDate),
		nullString(t.AssignedTo),
		nullString(t.ProjectID),
		t.HoursSpent,
		t.Billable,
		nullInt(t.CostRateOverride),
		nullInt(t.BillRateOverride),
		nullInt(t.HourlyRateOverride),
		t.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update task: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) UpdateCompletion(ctx context.Context, userId int, taskId string, done, approved bool, approvedAt *time.Time) (bool, error) {
	query := `UPDATE task SET done = ?, approved = ?, approved_at = ? WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, done, approved, timeParam(approvedAt), taskId, userId)
	if err != nil {
		err := fmt.Errorf("could not update task completion: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM task WHERE id = ? AND user_id = ?`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete task: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func scanTask(scan func(dest ...any) error) (Task, error) {
	var t Task
	var priority string
	var dueDate, approvedAt sql.NullString
	var assignedTo, projectId, incomeTxId, expenseTxId sql.NullString
	var costOverride, billOverride, hourlyOverride sql.NullInt64
	var appliedCost, appliedBill, appliedHourly sql.NullInt64
	err := scan(
		&t.ID,
		&t.Content,
		&priority,
		&dueDate,
		&t.Done,
		&assignedTo,
		&projectId,
		&t.HoursSpent,
		&t.Billable,
		&costOverride,
		&billOverride,
		&hourlyOverride,
		&appliedCost,
		&appliedBill,
		&appliedHourly,
		&t.Approved,
		&approvedAt,
		&incomeTxId,
		&expenseTxId,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, err
	}
	if err != nil {
		err := fmt.Errorf("could not scan task: %w", err)
		log.Error(err)
		return Task{}, err
	}
	t.Priority = Priority(priority)
	if dueDate.Valid {
		d, err := time.Parse("2006-01-02", dueDate.String)
		if err != nil {
			err := fmt.Errorf("could not parse due date: %w", err)
			log.Error(err)
			return Task{}, err
		}
		t.DueDate = d
	}
	if approvedAt.Valid {
		ts, err := time.Parse(time.RFC3339, approvedAt.String)
		if err != nil {
			err := fmt.Errorf("could not parse approved_at: %w", err)
			log.Error(err)
			return Task{}, err
		}
		t.ApprovedAt = &ts
	}
	t.AssignedTo = assignedTo.String
	t.ProjectID = projectId.String
	t.IncomeTxID = incomeTxId.String
	t.ExpenseTxID = expenseTxId.String
	t.CostRateOverride = intPtr(costOverride)
	t.BillRateOverride = intPtr(billOverride)
	t.HourlyRateOverride = intPtr(hourlyOverride)
	t.AppliedCostRate = intPtr(appliedCost)
	t.AppliedBillRate = intPtr(appliedBill)
	t.AppliedHourlyRate = intPtr(appliedHourly)
	return t, nil
}

func dateParam(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02")
}

func timeParam(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
