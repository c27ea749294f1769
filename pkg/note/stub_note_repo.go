package note

import (
	"context"
	"time"
)

type StubRepo struct {
	data map[string]Note
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]Note{}}
}

func (s *StubRepo) Store(ctx context.Context, userId int, n Note) error {
	s.data[n.ID] = n
	return nil
}

func (s *StubRepo) GetAll(ctx context.Context, userId int) ([]Note, error) {
	notes := make([]Note, 0, len(s.data))
	for _, n := range s.data {
		notes = append(notes, n)
	}
	return notes, nil
}

func (s *StubRepo) Get(ctx context.Context, userId int, id string) (Note, error) {
	n, ok := s.data[id]
	if !ok {
		return Note{}, ErrNoteNotFound
	}
	return n, nil
}

func (s *StubRepo) ListByDateRange(ctx context.Context, userId int, from, to time.Time) ([]Note, error) {
	var notes []Note
	for _, n := range s.data {
		if !n.Date.Before(from) && !n.Date.After(to) {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

func (s *StubRepo) Update(ctx context.Context, userId int, n Note) (bool, error) {
	if _, ok := s.data[n.ID]; !ok {
		return false, nil
	}
	s.data[n.ID] = n
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
	s.data = map[string]Note{}
}
