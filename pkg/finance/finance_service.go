package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/crewdeck/crewdeck/pkg/user"
	"github.com/google/uuid"
)

type Service interface {
	GetAll(ctx context.Context) ([]Transaction, error)
	Get(ctx context.Context, id string) (Transaction, error)
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	Update(ctx context.Context, tx Transaction) (Transaction, error)
	Delete(ctx context.Context, id string) error
	SummaryForMonth(ctx context.Context, year int, month time.Month) (MonthlySummary, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, tx Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	tx.ID = uuid.NewString()
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	if err := s.repo.Store(ctx, userId, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func (s *ServiceImpl) Update(ctx context.Context, tx Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, tx)
	if err != nil {
		return Transaction{}, err
	}
	if !updated {
		return Transaction{}, ErrTransactionNotFound
	}
	return s.repo.Get(ctx, userId, tx.ID)
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
		return ErrTransactionNotFound
	}
	return nil
}

func (s *ServiceImpl) SummaryForMonth(ctx context.Context, year int, month time.Month) (MonthlySummary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.SummaryForMonth(ctx, userId, year, month)
}
