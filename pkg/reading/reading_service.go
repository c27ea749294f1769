package reading

import (
	"context"
	"fmt"

	"github.com/crewdeck/crewdeck/internal/utils"
	"github.com/crewdeck/crewdeck/pkg/user"
	"github.com/google/uuid"
)

type Service interface {
	GetAll(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	MarkReading(ctx context.Context, id string) (Item, error)
	MarkCompleted(ctx context.Context, id string) (Item, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, item Item) (Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("failed to get current user: %w", err)
	}
	item.ID = uuid.NewString()
	if item.Status == "" {
		item.Status = StatusToRead
	}
	if item.Priority == "" {
		item.Priority = PriorityMedium
	}
	if item.ItemType == "" {
		item.ItemType = TypeOther
	}
	if item.AddedDate.IsZero() {
		item.AddedDate = utils.Today(s.clock)
	}
	if err := s.repo.Store(ctx, userId, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *ServiceImpl) Update(ctx context.Context, item Item) (Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, item)
	if err != nil {
		return Item{}, err
	}
	if !updated {
		return Item{}, ErrItemNotFound
	}
	return s.repo.Get(ctx, userId, item.ID)
}

func (s *ServiceImpl) MarkReading(ctx context.Context, id string) (Item, error) {
	return s.setStatus(ctx, id, StatusReading)
}

func (s *ServiceImpl) MarkCompleted(ctx context.Context, id string) (Item, error) {
	return s.setStatus(ctx, id, StatusCompleted)
}

func (s *ServiceImpl) setStatus(ctx context.Context, id string, status Status) (Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("failed to get current user: %w", err)
	}
	item, err := s.repo.Get(ctx, userId, id)
	if err != nil {
		return Item{}, err
	}
	item.Status = status
	if status == StatusCompleted {
		today := utils.Today(s.clock)
		item.CompletedDate = &today
	} else {
		item.CompletedDate = nil
	}
	updated, err := s.repo.Update(ctx, userId, item)
	if err != nil {
		return Item{}, err
	}
	if !updated {
		return Item{}, ErrItemNotFound
	}
	return item, nil
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
		return ErrItemNotFound
	}
	return nil
}
