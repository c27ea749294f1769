package note

import (
	"context"
	"fmt"
	"time"

	"github.com/crewdeck/crewdeck/internal/utils"
	"github.com/crewdeck/crewdeck/pkg/user"
	"github.com/google/uuid"
)

type Service interface {
	GetAll(ctx context.Context) ([]Note, error)
	Get(ctx context.Context, id string) (Note, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Note, error)
	Create(ctx context.Context, n Note) (Note, error)
	Update(ctx context.Context, n Note) (Note, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Note, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Note, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Note{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) ListByDateRange(ctx context.Context, from, to time.Time) ([]Note, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListByDateRange(ctx, userId, from, to)
}

func (s *ServiceImpl) Create(ctx context.Context, n Note) (Note, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Note{}, fmt.Errorf("failed to get current user: %w", err)
	}
	n.ID = uuid.NewString()
	if n.Date.IsZero() {
		n.Date = utils.Today(s.clock)
	}
	if err := s.repo.Store(ctx, userId, n); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (s *ServiceImpl) Update(ctx context.Context, n Note) (Note, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Note{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, n)
	if err != nil {
		return Note{}, err
	}
	if !updated {
		return Note{}, ErrNoteNotFound
	}
	return s.repo.Get(ctx, userId, n.ID)
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
		return ErrNoteNotFound
	}
	return nil
}
