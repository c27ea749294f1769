package goal

import "context"

type StubRepo struct {
	data map[string]Goal
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]Goal{}}
}

func (s *StubRepo) Store(ctx context.Context, userId int, g Goal) error {
	s.data[g.ID] = g
	return nil
}

func (s *StubRepo) GetAll(ctx context.Context, userId int) ([]Goal, error) {
	goals := make([]Goal, 0, len(s.data))
	for _, g := range s.data {
		goals = append(goals, g)
	}
	return goals, nil
}

func (s *StubRepo) Get(ctx context.Context, userId int, id string) (Goal, error) {
	g, ok := s.data[id]
	if !ok {
		return Goal{}, ErrGoalNotFound
	}
	return g, nil
}

func (s *StubRepo) Update(ctx context.Context, userId int, g Goal) (bool, error) {
	if _, ok := s.data[g.ID]; !ok {
		return false, nil
	}
	s.data[g.ID] = g
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
	s.data = map[string]Goal{}
}
