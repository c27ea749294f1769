package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user does not exist")

type Repo interface {
	Store(ctx context.Context, u User, passwordHash string) (int, error)
	FindByEmail(ctx context.Context, email string) (User, string, error)
	FindByUid(ctx context.Context, uid string) (User, error)
	FindById(ctx context.Context, id int) (User, error)
	Update(ctx context.Context, u User) (bool, error)
	UpdatePassword(ctx context.Context, userId int, passwordHash string) (bool, error)
	CountUsers(ctx context.Context) (int, error)

	StoreSession(ctx context.Context, s Session) error
	FindUserByToken(ctx context.Context, token string) (User, error)
	DeleteSession(ctx context.Context, token string) error

	StoreRegistrationCode(ctx context.Context, code RegistrationCode) error
	FindActiveRegistrationCode(ctx context.Context, code string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, u User, passwordHash string) (int, error) {
	query := `INSERT INTO app_user (uid, email, name, role, photo_url, password_hash) VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, u.Uid, u.Email, u.Name, string(u.Role), u.PhotoUrl, passwordHash)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(lastInsertID), nil
}

func (r *RepoImpl) scanUser(row *sql.Row) (User, string, error) {
	var u User
	var role, passwordHash string
	var photoUrl sql.NullString
	err := row.Scan(&u.Id, &u.Uid, &u.Email, &u.Name, &role, &photoUrl, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan user: %w", err)
		log.Error(err)
		return User{}, "", err
	}
	u.Role = Role(role)
	if photoUrl.Valid {
		u.PhotoUrl = photoUrl.String
	}
	return u, passwordHash, nil
}

func (r *RepoImpl) FindByEmail(ctx context.Context, email string) (User, string, error) {
	query := `SELECT id, uid, email, name, role, photo_url, password_hash FROM app_user WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *RepoImpl) FindByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT id, uid, email, name, role, photo_url, password_hash FROM app_user WHERE uid = ?`
	u, _, err := r.scanUser(r.db.QueryRowContext(ctx, query, uid))
	return u, err
}

func (r *RepoImpl) FindById(ctx context.Context, id int) (User, error) {
	query := `SELECT id, uid, email, name, role, photo_url, password_hash FROM app_user WHERE id = ?`
	u, _, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	return u, err
}

func (r *RepoImpl) Update(ctx context.Context, u User) (bool, error) {
	query := `UPDATE app_user SET name = ?, photo_url = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, u.Name, u.PhotoUrl, u.Id)
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

func (r *RepoImpl) UpdatePassword(ctx context.Context, userId int, passwordHash string) (bool, error) {
	query := `UPDATE app_user SET password_hash = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, passwordHash, userId)
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

func (r *RepoImpl) CountUsers(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM app_user`)
	var count int
	if err := row.Scan(&count); err != nil {
		err := fmt.Errorf("could not count users: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

func (r *RepoImpl) StoreSession(ctx context.Context, s Session) error {
	query := `INSERT INTO session (token, user_id, created_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, s.Token, s.UserId, s.CreatedAt); err != nil {
		err := fmt.Errorf("could not store session: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) FindUserByToken(ctx context.Context, token string) (User, error) {
	query := `SELECT u.id, u.uid, u.email, u.name, u.role, u.photo_url, u.password_hash
			  FROM app_user u JOIN session s ON s.user_id = u.id WHERE s.token = ?`
	u, _, err := r.scanUser(r.db.QueryRowContext(ctx, query, token))
	return u, err
}

func (r *RepoImpl) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE token = ?`, token); err != nil {
		err := fmt.Errorf("could not delete session: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) StoreRegistrationCode(ctx context.Context, code RegistrationCode) error {
	query := `INSERT INTO registration_code (code, is_active) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, code.Code, code.IsActive); err != nil {
		err := fmt.Errorf("could not store registration code: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) FindActiveRegistrationCode(ctx context.Context, code string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registration_code WHERE code = ? AND is_active = ?`, code, true)
	var count int
	if err := row.Scan(&count); err != nil {
		err := fmt.Errorf("could not query registration code: %w", err)
		log.Error(err)
		return false, err
	}
	return count > 0, nil
}
