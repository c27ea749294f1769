package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/crewdeck/crewdeck/internal/event_bus"
	"github.com/crewdeck/crewdeck/internal/utils"
	"github.com/crewdeck/crewdeck/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ErrNotPermitted is returned when a non-privileged actor tries to approve.
var ErrNotPermitted = errors.New("only owners and admins can approve tasks")

// FinanceGenerator refreshes applied rates and posts ledger entries for a done
// task. Implemented by the billing package; generation is idempotent, so the
// service calls it on every transition into (or re-confirmation of) the
// approved state.
type FinanceGenerator interface {
	Generate(ctx context.Context, t Task) (Task, error)
}

type Service interface {
	GetAll(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	FindByText(ctx context.Context, text string) (Task, error)
	ListOverdue(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, t Task) (Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) (Task, error)
	SetDone(ctx context.Context, id string, done bool) (Task, error)
	Approve(ctx context.Context, id string) (Task, error)
}

type ServiceImpl struct {
	repo      Repo
	generator FinanceGenerator
	clock     utils.Clock
	bus       *event_bus.EventBus
}

func NewService(repo Repo, generator FinanceGenerator, clock utils.Clock, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, generator: generator, clock: clock, bus: bus}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Task, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Task, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Task{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) FindByText(ctx context.Context, text string) (Task, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Task{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if text == "" {
		return Task{}, ErrTaskNotFound
	}
	return s.repo.FindByText(ctx, userId, text)
}

func (s *ServiceImpl) ListOverdue(ctx context.Context) ([]Task, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListOverdue(ctx, userId, s.clock.Now())
}

func (s *ServiceImpl) Create(ctx context.Context, t Task) (Task, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Task{}, fmt.Errorf("failed to get current user: %w", err)
	}
	t.ID = uuid.NewString()
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	// new tasks always start open, without finance artifacts
	t.Done = false
	t.Approved = false
	t.ApprovedAt = nil
	t.AppliedCostRate = nil
	t.AppliedBillRate = nil
	t.AppliedHourlyRate = nil
	t.IncomeTxID = ""
	t.ExpenseTxID = ""
	if err := s.repo.Store(ctx, userId, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Update edits the task's content and billing inputs. Completion flags and
// finance artifacts are untouched; those move only through SetDone/Approve
// and the finance generator.
func (s *ServiceImpl) Update(ctx context.Context, t Task) (Task, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Task{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, t)
	if err != nil {
		return Task{}, err
	}
	if !updated {
		log.Warnf("task %s not updated, probably because it does not exist or the user (%d) is not the owner", t.ID, userId)
		return Task{}, ErrTaskNotFound
	}
	return s.repo.Get(ctx, userId, t.ID)
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
		return ErrTaskNotFound
	}
	return nil
}

func (s *ServiceImpl) Toggle(ctx context.Context, id string) (Task, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Task{}, fmt.Errorf("failed to get current user: %w", err)
	}
	t, err := s.repo.Get(ctx, userId, id)
	if err != nil {
		return Task{}, err
	}
	return s.SetDone(ctx, id, !t.Done)
}

// SetDone drives the approval state machine.
//
//	open -> awaiting_approval  non-privileged completion; approval force-cleared
//	open -> approved           privileged completion; approved_at stamped, finance generated
//	done -> open               approval and timestamp cleared; ledger linkage stays
func (s *ServiceImpl) SetDone(ctx context.Context, id string, done bool) (Task, error) {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return Task{}, fmt.Errorf("failed to get current user: %w", err)
	}
	t, err := s.repo.Get(ctx, actor.Id, id)
	if err != nil {
		return Task{}, err
	}

	if !done {
		t.Done = false
		t.Approved = false
		t.ApprovedAt = nil
		if err := s.persistCompletion(ctx, actor.Id, t); err != nil {
			return Task{}, err
		}
		s.publish(ctx, event_bus.TaskReopenedEvent, event_bus.TaskReopened{TaskID: t.ID})
		return t, nil
	}

	t.Done = true
	if actor.IsPrivileged() {
		t.Approved = true
		now := s.clock.Now()
		t.ApprovedAt = &now
	} else {
		// force-clear even if the flag was somehow set before
		t.Approved = false
		t.ApprovedAt = nil
	}
	if err := s.persistCompletion(ctx, actor.Id, t); err != nil {
		return Task{}, err
	}

	if !t.Approved {
		s.publish(ctx, event_bus.TaskCompletedEvent, event_bus.TaskCompleted{TaskID: t.ID, EmployeeID: t.AssignedTo})
		return t, nil
	}

	s.publish(ctx, event_bus.TaskApprovedEvent, event_bus.TaskApproved{
		TaskID:     t.ID,
		EmployeeID: t.AssignedTo,
		ProjectID:  t.ProjectID,
		ApprovedAt: *t.ApprovedAt,
	})
	return s.generator.Generate(ctx, t)
}

// Approve moves the task to the approved state and triggers finance
// generation. Approving an already-approved task changes no state but still
// re-runs the generator, which refreshes the applied-rate audit fields.
func (s *ServiceImpl) Approve(ctx context.Context, id string) (Task, error) {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return Task{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !actor.IsPrivileged() {
		return Task{}, ErrNotPermitted
	}
	t, err := s.repo.Get(ctx, actor.Id, id)
	if err != nil {
		return Task{}, err
	}

	if !t.Approved {
		t.Done = true
		t.Approved = true
		now := s.clock.Now()
		t.ApprovedAt = &now
		if err := s.persistCompletion(ctx, actor.Id, t); err != nil {
			return Task{}, err
		}
		s.publish(ctx, event_bus.TaskApprovedEvent, event_bus.TaskApproved{
			TaskID:     t.ID,
			EmployeeID: t.AssignedTo,
			ProjectID:  t.ProjectID,
			ApprovedAt: *t.ApprovedAt,
		})
	}

	return s.generator.Generate(ctx, t)
}

func (s *ServiceImpl) persistCompletion(ctx context.Context, userId int, t Task) error {
	updated, err := s.repo.UpdateCompletion(ctx, userId, t.ID, t.Done, t.Approved, t.ApprovedAt)
	if err != nil {
		return err
	}
	if !updated {
		return ErrTaskNotFound
	}
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to publish %s event: %v", eventType, err)
	}
}
