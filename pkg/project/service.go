package project

import (
	"context"
	"fmt"

	"github.com/crewdeck/crewdeck/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id string) (Project, error)
	Create(ctx context.Context, p Project) (Project, error)
	Update(ctx context.Context, p Project) (Project, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, m Member) error
	RemoveMember(ctx context.Context, projectId, employeeId string) error
	SetMemberRates(ctx context.Context, m Member) error
	FindMember(ctx context.Context, projectId, employeeId string) (Member, error)

	AddLink(ctx context.Context, l Link) (Link, error)
	RemoveLink(ctx context.Context, projectId, linkId string) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Project, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Project, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Project{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, p Project) (Project, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Project{}, fmt.Errorf("failed to get current user: %w", err)
	}
	p.ID = uuid.NewString()
	if p.Status == "" {
		p.Status = StatusActive
	}
	if err := s.repo.Store(ctx, userId, p); err != nil {
		return Project{}, err
	}
	return p, nil
}

func (s *ServiceImpl) Update(ctx context.Context, p Project) (Project, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Project{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, p)
	if err != nil {
		return Project{}, err
	}
	if !updated {
		log.Warnf("project %s not updated, probably because it does not exist or the user (%d) is not the owner", p.ID, userId)
		return Project{}, ErrProjectNotFound
	}
	return s.repo.Get(ctx, userId, p.ID)
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
		return ErrProjectNotFound
	}
	return nil
}

func (s *ServiceImpl) AddMember(ctx context.Context, m Member) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if _, err := s.repo.Get(ctx, userId, m.ProjectID); err != nil {
		return err
	}
	// adding twice is a no-op; the pair is unique
	if _, err := s.repo.FindMember(ctx, userId, m.ProjectID, m.EmployeeID); err == nil {
		return nil
	}
	return s.repo.AddMember(ctx, userId, m)
}

func (s *ServiceImpl) RemoveMember(ctx context.Context, projectId, employeeId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	removed, err := s.repo.RemoveMember(ctx, userId, projectId, employeeId)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
	return nil
}

func (s *ServiceImpl) SetMemberRates(ctx context.Context, m Member) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.UpdateMemberRates(ctx, userId, m)
	if err != nil {
		return err
	}
	if !updated {
		return ErrMemberNotFound
	}
	return nil
}

func (s *ServiceImpl) FindMember(ctx context.Context, projectId, employeeId string) (Member, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Member{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindMember(ctx, userId, projectId, employeeId)
}

func (s *ServiceImpl) AddLink(ctx context.Context, l Link) (Link, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Link{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if _, err := s.repo.Get(ctx, userId, l.ProjectID); err != nil {
		return Link{}, err
	}
	l.ID = uuid.NewString()
	if err := s.repo.AddLink(ctx, userId, l); err != nil {
		return Link{}, err
	}
	return l, nil
}

func (s *ServiceImpl) RemoveLink(ctx context.Context, projectId, linkId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	removed, err := s.repo.RemoveLink(ctx, userId, projectId, linkId)
	if err != nil {
		return err
	}
	if !removed {
		return ErrProjectNotFound
	}
	return nil
}
