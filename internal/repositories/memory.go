package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/usergraph/backend/internal/models"
)

// NewInMemoryUserRepository returns a UserRepository backed by an in-memory map.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[int64]models.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// InMemoryUserRepository implements UserRepository for tests and local development.
// Identifiers are assigned sequentially starting at 1.
type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]models.User
	lastID int64
	now    func() time.Time
}

// FindByID retrieves a user by identifier.
func (s *InMemoryUserRepository) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	user, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

// List returns every user ordered by identifier.
func (s *InMemoryUserRepository) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Create validates the record and stores it under the next identifier.
func (s *InMemoryUserRepository) Create(_ context.Context, user models.User) (models.User, error) {
	if err := validateUser(user); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	now := s.now()
	user.ID = s.lastID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return user, nil
}

// Update validates the record and replaces the stored name and email.
func (s *InMemoryUserRepository) Update(_ context.Context, user models.User) (models.User, error) {
	if !user.Persisted() {
		return models.User{}, ErrNotFound
	}
	if err := validateUser(user); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return models.User{}, ErrNotFound
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.UpdatedAt = s.now()
	s.users[user.ID] = existing
	return existing, nil
}

// Delete removes the user.
func (s *InMemoryUserRepository) Delete(_ context.Context, user models.User) error {
	if !user.Persisted() {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	delete(s.users, user.ID)
	return nil
}

// Ping always succeeds.
func (s *InMemoryUserRepository) Ping(context.Context) error {
	return nil
}

// WithNowFunc allows tests to override the time source.
func (s *InMemoryUserRepository) WithNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

var _ UserRepository = (*InMemoryUserRepository)(nil)
