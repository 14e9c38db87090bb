// Package memory stores users and trainings in process memory for local
// development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/domain"
)

// UserRepository keeps users in a mutex-guarded map.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserRepository constructs an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

// Save implements domain.UserRepository as insert-or-replace. Emails stay
// unique across users, matching the constraint the SQL schema enforces.
func (r *UserRepository) Save(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.users {
		if existing.Email == user.Email && id != user.ID {
			return domain.ErrEmailTaken
		}
	}

	r.users[user.ID] = user
	return nil
}

// FindByID returns the user or nil when absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// FindByEmail returns the user owning the email or nil when none does.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

// FindAll returns every stored user.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

// FindBornBefore returns users whose birthdate is strictly before cutoff.
func (r *UserRepository) FindBornBefore(ctx context.Context, cutoff time.Time) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0)
	for _, user := range r.users {
		if user.Birthdate.Before(cutoff) {
			out = append(out, user)
		}
	}
	return out, nil
}

// ExistsByID reports whether a user with the ID is stored.
func (r *UserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok, nil
}

// Delete removes the user. Deleting an absent ID is a no-op; the service layer
// owns the existence check.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}
