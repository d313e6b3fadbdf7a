// Package testutil provides fixtures shared by tests: an in-memory user
// store and a disposable PostgreSQL container.
package testutil

import (
	"context"
	"sync"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemoryUserStore mirrors the users table in memory, including the unique
// email constraint. Setting Err makes every call fail with it.
type MemoryUserStore struct {
	mu     sync.Mutex
	users  []model.User
	nextID int64

	Err error
}

func NewMemoryUserStore(seed ...model.User) *MemoryUserStore {
	s := &MemoryUserStore{}
	for _, u := range seed {
		s.nextID = max(s.nextID, u.ID)
		s.users = append(s.users, u)
	}
	return s
}

// Snapshot returns a copy of the stored rows in insertion order.
func (s *MemoryUserStore) Snapshot() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.User(nil), s.users...)
}

func (s *MemoryUserStore) ListUsers(_ context.Context) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Snapshot(), nil
}

func (s *MemoryUserStore) FindUserByID(_ context.Context, id int64) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.ID == id })
}

func (s *MemoryUserStore) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.Email == email })
}

func (s *MemoryUserStore) FindUserByEmailExcludingID(_ context.Context, email string, id int64) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.Email == email && u.ID != id })
}

func (s *MemoryUserStore) find(match func(model.User) bool) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) CreateUser(_ context.Context, name, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(email, 0) {
		return nil, uniqueViolation()
	}

	s.nextID++
	u := model.User{ID: s.nextID, Name: name, Email: email}
	s.users = append(s.users, u)
	return &u, nil
}

func (s *MemoryUserStore) UpdateUser(_ context.Context, id int64, name, email *string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		if email != nil && s.emailTaken(*email, id) {
			return nil, uniqueViolation()
		}
		if name != nil {
			s.users[i].Name = *name
		}
		if email != nil {
			s.users[i].Email = *email
		}
		updated := s.users[i]
		return &updated, nil
	}
	return nil, nil
}

func (s *MemoryUserStore) DeleteUser(_ context.Context, id int64) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryUserStore) emailTaken(email string, exceptID int64) bool {
	for _, u := range s.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func uniqueViolation() error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           pgerrcode.UniqueViolation,
		Message:        `duplicate key value violates unique constraint "users_email_key"`,
		TableName:      "users",
		ConstraintName: "users_email_key",
	}
}
