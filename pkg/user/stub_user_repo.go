package user

import (
	"context"
)

type StubRepo struct {
	nextId   int
	users    map[int]User
	hashes   map[int]string
	sessions map[string]int
	codes    map[string]bool
}

func NewStubRepo() *StubRepo {
	return &StubRepo{
		users:    map[int]User{},
		hashes:   map[int]string{},
		sessions: map[string]int{},
		codes:    map[string]bool{},
	}
}

func (s *StubRepo) Store(ctx context.Context, u User, passwordHash string) (int, error) {
	s.nextId++
	u.Id = s.nextId
	s.users[u.Id] = u
	s.hashes[u.Id] = passwordHash
	return u.Id, nil
}

func (s *StubRepo) FindByEmail(ctx context.Context, email string) (User, string, error) {
	for id, u := range s.users {
		if u.Email == email {
			return u, s.hashes[id], nil
		}
	}
	return User{}, "", ErrUserNotFound
}

func (s *StubRepo) FindByUid(ctx context.Context, uid string) (User, error) {
	for _, u := range s.users {
		if u.Uid == uid {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubRepo) FindById(ctx context.Context, id int) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubRepo) Update(ctx context.Context, u User) (bool, error) {
	if _, ok := s.users[u.Id]; !ok {
		return false, nil
	}
	s.users[u.Id] = u
	return true, nil
}

func (s *StubRepo) UpdatePassword(ctx context.Context, userId int, passwordHash string) (bool, error) {
	if _, ok := s.users[userId]; !ok {
		return false, nil
	}
	s.hashes[userId] = passwordHash
	return true, nil
}

func (s *StubRepo) CountUsers(ctx context.Context) (int, error) {
	return len(s.users), nil
}

func (s *StubRepo) StoreSession(ctx context.Context, sess Session) error {
	s.sessions[sess.Token] = sess.UserId
	return nil
}

func (s *StubRepo) FindUserByToken(ctx context.Context, token string) (User, error) {
	id, ok := s.sessions[token]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *StubRepo) DeleteSession(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *StubRepo) StoreRegistrationCode(ctx context.Context, code RegistrationCode) error {
	s.codes[code.Code] = code.IsActive
	return nil
}

func (s *StubRepo) FindActiveRegistrationCode(ctx context.Context, code string) (bool, error) {
	return s.codes[code], nil
}

func (s *StubRepo) Cleanup() {
	s.users = map[int]User{}
	s.hashes = map[int]string{}
	s.sessions = map[string]int{}
	s.codes = map[string]bool{}
}
