package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("registration code is not valid")
	ErrEmailTaken         = errors.New("email is already registered")
)

type Service interface {
	Register(ctx context.Context, email, password, name, code string) (User, error)
	Login(ctx context.Context, email, password string) (User, string, error)
	Logout(ctx context.Context, token string) error
	GetUserByToken(ctx context.Context, token string) (User, error)
	UpdateProfile(ctx context.Context, name, photoUrl string) (User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	EnsureOwner(ctx context.Context) error
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Register(ctx context.Context, email, password, name, code string) (User, error) {
	ok, err := s.repo.FindActiveRegistrationCode(ctx, code)
	if err != nil {
		return User{}, fmt.Errorf("failed to verify registration code: %w", err)
	}
	if !ok {
		return User{}, ErrInvalidCode
	}

	if _, _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := User{
		Uid:   uuid.NewString(),
		Email: email,
		Name:  name,
		Role:  RoleUser,
	}
	id, err := s.repo.Store(ctx, u, string(hash))
	if err != nil {
		return User{}, err
	}
	u.Id = id
	log.Infof("registered user %s", u.Uid)
	return u, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (User, string, error) {
	u, hash, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token := newSessionToken()
	session := Session{Token: token, UserId: u.Id, CreatedAt: time.Now()}
	if err := s.repo.StoreSession(ctx, session); err != nil {
		return User{}, "", fmt.Errorf("failed to store session: %w", err)
	}
	return u, token, nil
}

func (s *ServiceImpl) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteSession(ctx, token)
}

func (s *ServiceImpl) GetUserByToken(ctx context.Context, token string) (User, error) {
	return s.repo.FindUserByToken(ctx, token)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, name, photoUrl string) (User, error) {
	u, err := CurrentUser(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if name != "" {
		u.Name = name
	}
	if photoUrl != "" {
		u.PhotoUrl = photoUrl
	}
	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return User{}, err
	}
	if !updated {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *ServiceImpl) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	u, err := CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	_, hash, err := s.repo.FindByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	updated, err := s.repo.UpdatePassword(ctx, u.Id, string(newHash))
	if err != nil {
		return err
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}

// EnsureOwner seeds an owner account and an active registration code on a
// fresh database. Generated credentials are logged once; they are meant to be
// changed right after the first login.
func (s *ServiceImpl) EnsureOwner(ctx context.Context) error {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := newSessionToken()[:16]
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	owner := User{
		Uid:   uuid.NewString(),
		Email: "owner@localhost",
		Name:  "Owner",
		Role:  RoleOwner,
	}
	if _, err := s.repo.Store(ctx, owner, string(hash)); err != nil {
		return err
	}

	code := newSessionToken()[:6]
	if err := s.repo.StoreRegistrationCode(ctx, RegistrationCode{Code: code, IsActive: true}); err != nil {
		return err
	}

	log.Warnf("seeded owner account %s with password %q and registration code %q", owner.Email, password, code)
	return nil
}

func newSessionToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
