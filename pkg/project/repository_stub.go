package project

import (
	"context"
)

type memberKey struct {
	projectId  string
	employeeId string
}

type StubRepository struct {
	projects map[string]Project
	members  map[memberKey]Member
	links    map[string]Link
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		projects: map[string]Project{},
		members:  map[memberKey]Member{},
		links:    map[string]Link{},
	}
}

func (s *StubRepository) Store(ctx context.Context, userId int, p Project) error {
	s.projects[p.ID] = p
	return nil
}

func (s *StubRepository) GetAll(ctx context.Context, userId int) ([]Project, error) {
	projects := make([]Project, 0, len(s.projects))
	for id := range s.projects {
		p, _ := s.Get(ctx, userId, id)
		projects = append(projects, p)
	}
	return projects, nil
}

func (s *StubRepository) Get(ctx context.Context, userId int, id string) (Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrProjectNotFound
	}
	p.Links = nil
	p.Members = nil
	for _, l := range s.links {
		if l.ProjectID == id {
			p.Links = append(p.Links, l)
		}
	}
	for _, m := range s.members {
		if m.ProjectID == id {
			p.Members = append(p.Members, m)
		}
	}
	return p, nil
}

func (s *StubRepository) Update(ctx context.Context, userId int, p Project) (bool, error) {
	if _, ok := s.projects[p.ID]; !ok {
		return false, nil
	}
	s.projects[p.ID] = p
	return true, nil
}

func (s *StubRepository) Delete(ctx context.Context, userId int, id string) (bool, error) {
	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	delete(s.projects, id)
	return true, nil
}

func (s *StubRepository) AddMember(ctx context.Context, userId int, m Member) error {
	s.members[memberKey{m.ProjectID, m.EmployeeID}] = m
	return nil
}

func (s *StubRepository) RemoveMember(ctx context.Context, userId int, projectId, employeeId string) (bool, error) {
	key := memberKey{projectId, employeeId}
	if _, ok := s.members[key]; !ok {
		return false, nil
	}
	delete(s.members, key)
	return true, nil
}

func (s *StubRepository) UpdateMemberRates(ctx context.Context, userId int, m Member) (bool, error) {
	key := memberKey{m.ProjectID, m.EmployeeID}
	if _, ok := s.members[key]; !ok {
		return false, nil
	}
	s.members[key] = m
	return true, nil
}

func (s *StubRepository) FindMember(ctx context.Context, userId int, projectId, employeeId string) (Member, error) {
	m, ok := s.members[memberKey{projectId, employeeId}]
	if !ok {
		return Member{}, ErrMemberNotFound
	}
	return m, nil
}

func (s *StubRepository) AddLink(ctx context.Context, userId int, l Link) error {
	s.links[l.ID] = l
	return nil
}

func (s *StubRepository) RemoveLink(ctx context.Context, userId int, projectId, linkId string) (bool, error) {
	if _, ok := s.links[linkId]; !ok {
		return false, nil
	}
	delete(s.links, linkId)
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.projects = map[string]Project{}
	s.members = map[memberKey]Member{}
	s.links = map[string]Link{}
}
