package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/crewdeck/crewdeck/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	FindByName(ctx context.Context, name string) (Employee, error)
	Create(ctx context.Context, e Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	UpdateStatus(ctx context.Context, id, status, tag string) (Employee, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Employee, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Employee, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) FindByName(ctx context.Context, name string) (Employee, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if name == "" {
		return Employee{}, ErrEmployeeNotFound
	}
	return s.repo.FindByName(ctx, userId, name)
}

func (s *ServiceImpl) Create(ctx context.Context, e Employee) (Employee, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current user: %w", err)
	}
	e.ID = uuid.NewString()
	if e.StatusDate.IsZero() {
		e.StatusDate = time.Now()
	}
	if err := s.repo.Store(ctx, userId, e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *ServiceImpl) Update(ctx context.Context, e Employee) (Employee, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, e)
	if err != nil {
		return Employee{}, err
	}
	if !updated {
		log.Warnf("employee %s not updated, probably because it does not exist or the user (%d) is not the owner", e.ID, userId)
		return Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (s *ServiceImpl) UpdateStatus(ctx context.Context, id, status, tag string) (Employee, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current user: %w", err)
	}
	e, err := s.repo.Get(ctx, userId, id)
	if err != nil {
		return Employee{}, err
	}
	e.CurrentStatus = status
	e.StatusTag = tag
	e.StatusDate = time.Now()
	if _, err := s.repo.Update(ctx, userId, e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEmployeeNotFound
	}
	return nil
}
