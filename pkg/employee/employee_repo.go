package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrEmployeeNotFound = errors.New("employee does not exist")

type Repo interface {
	Store(ctx context.Context, userId int, e Employee) error
	GetAll(ctx context.Context, userId int) ([]Employee, error)
	Get(ctx context.Context, userId int, id string) (Employee, error)
	FindByName(ctx context.Context, userId int, name string) (Employee, error)
	Update(ctx context.Context, userId int, e Employee) (bool, error)
	Delete(ctx context.Context, userId int, id string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const employeeColumns = `id, name, position, email, salary, revenue, current_status, status_tag, status_date,
	hourly_rate, cost_hourly_rate, bill_hourly_rate, planned_monthly_hours`

func (r *RepoImpl) Store(ctx context.Context, userId int, e Employee) error {
	query := `INSERT INTO employee (` + employeeColumns + `, user_id)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		e.ID,
		e.Name,
		e.Position,
		e.Email,
		nullFloat(e.Salary),
		nullFloat(e.Revenue),
		e.CurrentStatus,
		e.StatusTag,
		e.StatusDate.Format("2006-01-02"),
		nullInt(e.HourlyRate),
		nullInt(e.CostHourlyRate),
		nullInt(e.BillHourlyRate),
		nullInt(e.PlannedMonthlyHours),
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE user_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query employees: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return employees, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id string) (Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE user_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, userId, id)
	e, err := scanEmployee(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (r *RepoImpl) FindByName(ctx context.Context, userId int, name string) (Employee, error) {
	// case-insensitive containment, first match wins
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE user_id = ? AND LOWER(name) LIKE LOWER(?) LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, userId, "%"+name+"%")
	e, err := scanEmployee(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (r *RepoImpl) Update(ctx context.Context, userId int, e Employee) (bool, error) {
	query := `UPDATE employee SET
				  name = ?,
				  position = ?,
				  email = ?,
				  salary = ?,
				  revenue = ?,
				  current_status = ?,
				  status_tag = ?,
				  status_date = ?,
				  hourly_rate = ?,
				  cost_hourly_rate = ?,
				  bill_hourly_rate = ?,
				  planned_monthly_hours = ?
			  WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		e.Name,
		e.Position,
		e.Email,
		nullFloat(e.Salary),
		nullFloat(e.Revenue),
		e.CurrentStatus,
		e.StatusTag,
		e.StatusDate.Format("2006-01-02"),
		nullInt(e.HourlyRate),
		nullInt(e.CostHourlyRate),
		nullInt(e.BillHourlyRate),
		nullInt(e.PlannedMonthlyHours),
		e.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM employee WHERE id = ? AND user_id = ?`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
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

func scanEmployee(scan func(dest ...any) error) (Employee, error) {
	var e Employee
	var email, statusTag, statusDate sql.NullString
	var salary, revenue sql.NullFloat64
	var hourlyRate, costRate, billRate, plannedHours sql.NullInt64
	err := scan(
		&e.ID,
		&e.Name,
		&e.Position,
		&email,
		&salary,
		&revenue,
		&e.CurrentStatus,
		&statusTag,
		&statusDate,
		&hourlyRate,
		&costRate,
		&billRate,
		&plannedHours,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, err
	}
	if err != nil {
		err := fmt.Errorf("could not scan employee: %w", err)
		log.Error(err)
		return Employee{}, err
	}
	e.Email = email.String
	e.StatusTag = statusTag.String
	if statusDate.Valid {
		d, err := time.Parse("2006-01-02", statusDate.String)
		if err != nil {
			err := fmt.Errorf("could not parse status date: %w", err)
			log.Error(err)
			return Employee{}, err
		}
		e.StatusDate = d
	}
	e.Salary = floatPtr(salary)
	e.Revenue = floatPtr(revenue)
	e.HourlyRate = intPtr(hourlyRate)
	e.CostHourlyRate = intPtr(costRate)
	e.BillHourlyRate = intPtr(billRate)
	e.PlannedMonthlyHours = intPtr(plannedHours)
	return e, nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
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

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
