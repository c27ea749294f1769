package task

import (
	"context"
	"strings"
	"time"
)

type StubRepo struct {
	data map[string]Task
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]Task{}}
}

func (s *StubRepo) Store(ctx context.Context, userId int, t Task) error {
	s.data[t.ID] = t
	return nil
}

func (s *StubRepo) GetAll(ctx context.Context, userId int) ([]Task, error) {
	tasks := make([]Task, 0, len(s.data))
	for _, t := range s.data {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *StubRepo) Get(ctx context.Context, userId int, id string) (Task, error) {
	t, ok := s.data[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return t, nil
}

func (s *StubRepo) FindByText(ctx context.Context, userId int, text string) (Task, error) {
	for _, t := range s.data {
		if strings.Contains(strings.ToLower(t.Content), strings.ToLower(text)) {
			return t, nil
		}
	}
	return Task{}, ErrTaskNotFound
}

func (s *StubRepo) ListOverdue(ctx context.Context, userId int, today time.Time) ([]Task, error) {
	var tasks []Task
	for _, t := range s.data {
		if !t.Done && !t.DueDate.IsZero() && t.DueDate.Before(today) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *StubRepo) Update(ctx context.Context, userId int, t Task) (bool, error) {
	existing, ok := s.data[t.ID]
	if !ok {
		return false, nil
	}
	// editable fields only, matching the SQL repository
	existing.Content = t.Content
	existing.Priority = t.Priority
	existing.DueDate = t.DueDate
	existing.AssignedTo = t.AssignedTo
	existing.ProjectID = t.ProjectID
	existing.HoursSpent = t.HoursSpent
	existing.Billable = t.Billable
	existing.CostRateOverride = t.CostRateOverride
	existing.BillRateOverride = t.BillRateOverride
	existing.HourlyRateOverride = t.HourlyRateOverride
	s.data[t.ID] = existing
	return true, nil
}

func (s *StubRepo) UpdateCompletion(ctx context.Context, userId int, taskId string, done, approved bool, approvedAt *time.Time) (bool, error) {
	existing, ok := s.data[taskId]
	if !ok {
		return false, nil
	}
	existing.Done = done
	existing.Approved = approved
	existing.ApprovedAt = approvedAt
	s.data[taskId] = existing
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, userId int, id string) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) Cleanup() {
	s.data = map[string]Task{}
}
