package goal

import (
	"context"
	"fmt"

	"github.com/crewdeck/crewdeck/pkg/user"
	"github.com/google/uuid"
)

type Service interface {
	GetAll(ctx context.Context) ([]Goal, error)
	Get(ctx context.Context, id string) (Goal, error)
	Create(ctx context.Context, g Goal) (Goal, error)
	Update(ctx context.Context, g Goal) (Goal, error)
	UpdateProgress(ctx context.Context, id string, progress int) (Goal, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, g Goal) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	g.ID = uuid.NewString()
	if g.Status == "" {
		g.Status = StatusActive
	}
	g.Progress = clampProgress(g.Progress)
	if err := s.repo.Store(ctx, userId, g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

func (s *ServiceImpl) Update(ctx context.Context, g Goal) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	g.Progress = clampProgress(g.Progress)
	updated, err := s.repo.Update(ctx, userId, g)
	if err != nil {
		return Goal{}, err
	}
	if !updated {
		return Goal{}, ErrGoalNotFound
	}
	return s.repo.Get(ctx, userId, g.ID)
}

// UpdateProgress moves only the progress percentage. Reaching 100 marks the
// goal completed; dropping back below 100 reactivates it.
func (s *ServiceImpl) UpdateProgress(ctx context.Context, id string, progress int) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	g, err := s.repo.Get(ctx, userId, id)
	if err != nil {
		return Goal{}, err
	}
	g.Progress = clampProgress(progress)
	if g.Progress == 100 {
		g.Status = StatusCompleted
	} else if g.Status == StatusCompleted {
		g.Status = StatusActive
	}
	updated, err := s.repo.Update(ctx, userId, g)
	if err != nil {
		return Goal{}, err
	}
	if !updated {
		return Goal{}, ErrGoalNotFound
	}
	return g, nil
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
		return ErrGoalNotFound
	}
	return nil
}

func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
