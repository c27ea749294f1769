package employee

import (
	"context"
	"strings"
)

type StubRepo struct {
	data map[string]Employee
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]Employee{}}
}

func (s *StubRepo) Store(ctx context.Context, userId int, e Employee) error {
	s.data[e.ID] = e
	return nil
}

func (s *StubRepo) GetAll(ctx context.Context, userId int) ([]Employee, error) {
	employees := make([]Employee, 0, len(s.data))
	for _, e := range s.data {
		employees = append(employees, e)
	}
	return employees, nil
}

func (s *StubRepo) Get(ctx context.Context, userId int, id string) (Employee, error) {
	e, ok := s.data[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (s *StubRepo) FindByName(ctx context.Context, userId int, name string) (Employee, error) {
	for _, e := range s.data {
		if strings.Contains(strings.ToLower(e.Name), strings.ToLower(name)) {
			return e, nil
		}
	}
	return Employee{}, ErrEmployeeNotFound
}

func (s *StubRepo) Update(ctx context.Context, userId int, e Employee) (bool, error) {
	if _, ok := s.data[e.ID]; !ok {
		return false, nil
	}
	s.data[e.ID] = e
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
	s.data = map[string]Employee{}
}
