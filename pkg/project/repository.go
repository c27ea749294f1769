package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	ErrProjectNotFound = errors.New("project does not exist")
	ErrMemberNotFound  = errors.New("project member does not exist")
)

type Repository interface {
	Store(ctx context.Context, userId int, p Project) error
	GetAll(ctx context.Context, userId int) ([]Project, error)
	Get(ctx context.Context, userId int, id string) (Project, error)
	Update(ctx context.Context, userId int, p Project) (bool, error)
	Delete(ctx context.Context, userId int, id string) (bool, error)

	AddMember(ctx context.Context, userId int, m Member) error
	RemoveMember(ctx context.Context, userId int, projectId, employeeId string) (bool, error)
	UpdateMemberRates(ctx context.Context, userId int, m Member) (bool, error)
	FindMember(ctx context.Context, userId int, projectId, employeeId string) (Member, error)

	AddLink(ctx context.Context, userId int, l Link) error
	RemoveLink(ctx context.Context, userId int, projectId, linkId string) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, userId int, p Project) error {
	query := `INSERT INTO project (id, name, description, tags, status, start_date, end_date, user_id)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		strings.Join(p.Tags, ","),
		string(p.Status),
		dateParam(p.StartDate),
		dateParam(p.EndDate),
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not store project: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, userId int) ([]Project, error) {
	query := `SELECT id, name, description, tags, status, start_date, end_date FROM project WHERE user_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query projects: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	for i := range projects {
		if err := r.loadAssociations(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, id string) (Project, error) {
	query := `SELECT id, name, description, tags, status, start_date, end_date FROM project WHERE user_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, userId, id)
	p, err := scanProject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrProjectNotFound
	}
	if err != nil {
		return Project{}, err
	}
	if err := r.loadAssociations(ctx, &p); err != nil {
		return Project{}, err
	}
	return p, nil
}

func (r *RepositoryImpl) loadAssociations(ctx context.Context, p *Project) error {
	linkRows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, title, url, link_type FROM project_link WHERE project_id = ?`, p.ID)
	if err != nil {
		err := fmt.Errorf("could not query project links: %w", err)
		log.Error(err)
		return err
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var l Link
		if err := linkRows.Scan(&l.ID, &l.ProjectID, &l.Title, &l.URL, &l.LinkType); err != nil {
			err := fmt.Errorf("could not scan project link: %w", err)
			log.Error(err)
			return err
		}
		p.Links = append(p.Links, l)
	}
	if err := linkRows.Err(); err != nil {
		return err
	}

	memberRows, err := r.db.QueryContext(ctx,
		`SELECT project_id, employee_id, hourly_rate, cost_hourly_rate, bill_hourly_rate FROM project_member WHERE project_id = ?`, p.ID)
	if err != nil {
		err := fmt.Errorf("could not query project members: %w", err)
		log.Error(err)
		return err
	}
	defer memberRows.Close()
	for memberRows.Next() {
		m, err := scanMember(memberRows.Scan)
		if err != nil {
			return err
		}
		p.Members = append(p.Members, m)
	}
	return memberRows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, p Project) (bool, error) {
	query := `UPDATE project SET
				  name = ?,
				  description = ?,
				  tags = ?,
				  status = ?,
				  start_date = ?,
				  end_date = ?
			  WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		strings.Join(p.Tags, ","),
		string(p.Status),
		dateParam(p.StartDate),
		dateParam(p.EndDate),
		p.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update project: %w", err)
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

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM project WHERE id = ? AND user_id = ?`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete project: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) AddMember(ctx context.Context, userId int, m Member) error {
	query := `INSERT INTO project_member (project_id, employee_id, hourly_rate, cost_hourly_rate, bill_hourly_rate)
			  VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, m.ProjectID, m.EmployeeID,
		nullInt(m.HourlyRate), nullInt(m.CostHourlyRate), nullInt(m.BillHourlyRate))
	if err != nil {
		err := fmt.Errorf("could not add project member: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) RemoveMember(ctx context.Context, userId int, projectId, employeeId string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM project_member WHERE project_id = ? AND employee_id = ?`, projectId, employeeId)
	if err != nil {
		err := fmt.Errorf("could not remove project member: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) UpdateMemberRates(ctx context.Context, userId int, m Member) (bool, error) {
	query := `UPDATE project_member SET hourly_rate = ?, cost_hourly_rate = ?, bill_hourly_rate = ?
			  WHERE project_id = ? AND employee_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		nullInt(m.HourlyRate), nullInt(m.CostHourlyRate), nullInt(m.BillHourlyRate), m.ProjectID, m.EmployeeID)
	if err != nil {
		err := fmt.Errorf("could not update member rates: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) FindMember(ctx context.Context, userId int, projectId, employeeId string) (Member, error) {
	query := `SELECT m.project_id, m.employee_id, m.hourly_rate, m.cost_hourly_rate, m.bill_hourly_rate
			  FROM project_member m JOIN project p ON p.id = m.project_id
			  WHERE m.project_id = ? AND m.employee_id = ? AND p.user_id = ?`
	row := r.db.QueryRowContext(ctx, query, projectId, employeeId, userId)
	m, err := scanMember(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Member{}, ErrMemberNotFound
	}
	return m, err
}

func (r *RepositoryImpl) AddLink(ctx context.Context, userId int, l Link) error {
	query := `INSERT INTO project_link (id, project_id, title, url, link_type) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, l.ID, l.ProjectID, l.Title, l.URL, l.LinkType); err != nil {
		err := fmt.Errorf("could not add project link: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) RemoveLink(ctx context.Context, userId int, projectId, linkId string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM project_link WHERE project_id = ? AND id = ?`, projectId, linkId)
	if err != nil {
		err := fmt.Errorf("could not remove project link: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func scanProject(scan func(dest ...any) error) (Project, error) {
	var p Project
	var description, tags, status sql.NullString
	var startDate, endDate sql.NullString
	err := scan(&p.ID, &p.Name, &description, &tags, &status, &startDate, &endDate)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, err
	}
	if err != nil {
		err := fmt.Errorf("could not scan project: %w", err)
		log.Error(err)
		return Project{}, err
	}
	p.Description = description.String
	p.Status = Status(status.String)
	if tags.Valid && tags.String != "" {
		p.Tags = strings.Split(tags.String, ",")
	}
	if startDate.Valid {
		d, err := time.Parse("2006-01-02", startDate.String)
		if err != nil {
			return Project{}, fmt.Errorf("could not parse start date: %w", err)
		}
		p.StartDate = d
	}
	if endDate.Valid {
		d, err := time.Parse("2006-01-02", endDate.String)
		if err != nil {
			return Project{}, fmt.Errorf("could not parse end date: %w", err)
		}
		p.EndDate = d
	}
	return p, nil
}

func scanMember(scan func(dest ...any) error) (Member, error) {
	var m Member
	var hourlyRate, costRate, billRate sql.NullInt64
	err := scan(&m.ProjectID, &m.EmployeeID, &hourlyRate, &costRate, &billRate)
	if errors.Is(err, sql.ErrNoRows) {
		return Member{}, err
	}
	if err != nil {
		err := fmt.Errorf("could not scan project member: %w", err)
		log.Error(err)
		return Member{}, err
	}
	m.HourlyRate = intPtr(hourlyRate)
	m.CostHourlyRate = intPtr(costRate)
	m.BillHourlyRate = intPtr(billRate)
	return m, nil
}

func dateParam(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02")
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
