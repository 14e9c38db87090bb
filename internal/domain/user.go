// Package domain defines the business logic for the fitness tracker service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUserAlreadyPersisted indicates a create received a user that already carries an ID.
	ErrUserAlreadyPersisted = errors.New("user already has an ID, create is not permitted")
	// ErrUserNotPersisted indicates an update received a user without an ID.
	ErrUserNotPersisted = errors.New("user has no ID, update requires a persisted record")
	// ErrUserNotFound is returned when a required user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by repositories when a save would give two
	// users the same email.
	ErrEmailTaken = errors.New("email already in use")
)

// User represents a tracked person. The ID is empty until the record is first
// persisted.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Birthdate time.Time
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRepository captures persistence operations for users. Lookups that miss
// return a nil record and no error.
type UserRepository interface {
	Save(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindBornBefore(ctx context.Context, cutoff time.Time) ([]User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// UserService owns the user lifecycle and lookup operations.
type UserService struct {
	repo UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// CreateUser persists a brand-new user and returns the stored record carrying
// its assigned ID.
func (s *UserService) CreateUser(ctx context.Context, user User) (*User, error) {
	if user.ID != "" {
		return nil, ErrUserAlreadyPersisted
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.Birthdate = user.Birthdate.UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser fetches a user by ID. Absence is a normal outcome: both the record
// and the error are nil when no user matches.
func (s *UserService) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetUserByEmail fetches the user owning the given email, or nil when none does.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// ListUsers returns every user in storage order.
func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

// ListBornBefore returns every user whose birthdate is strictly before cutoff.
func (s *UserService) ListBornBefore(ctx context.Context, cutoff time.Time) ([]User, error) {
	return s.repo.FindBornBefore(ctx, cutoff.UTC())
}

// UpdateUser replaces the stored record keyed by the user's ID. The caller is
// responsible for supplying a record that carries the target ID.
func (s *UserService) UpdateUser(ctx context.Context, user User) (*User, error) {
	if user.ID == "" {
		return nil, ErrUserNotPersisted
	}

	user.Birthdate = user.Birthdate.UTC()
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser permanently removes the user. It does not touch the user's
// trainings; callers removing an account must go through UserRemover.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return s.repo.Delete(ctx, id)
}
