package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTrainingAlreadyPersisted indicates an add received a training that already carries an ID.
	ErrTrainingAlreadyPersisted = errors.New("training already has an ID, update is not permitted")
	// ErrTrainingNotPersisted indicates an update received a training without an ID.
	ErrTrainingNotPersisted = errors.New("training has no ID, update requires a persisted record")
	// ErrTrainingNotFound is returned when a training cannot be located.
	ErrTrainingNotFound = errors.New("training not found")
)

// Training is one recorded activity session owned by exactly one user.
type Training struct {
	ID           string
	User         User
	StartTime    time.Time
	EndTime      time.Time
	ActivityType ActivityType
	Distance     float64
	AverageSpeed float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TrainingRepository captures persistence operations for trainings.
type TrainingRepository interface {
	Save(ctx context.Context, training Training) error
	FindByID(ctx context.Context, id string) (*Training, error)
	FindAll(ctx context.Context) ([]Training, error)
	FindByUser(ctx context.Context, userID string) ([]Training, error)
	FindEndedAfter(ctx context.Context, cutoff time.Time) ([]Training, error)
	FindByActivityType(ctx context.Context, activity ActivityType) ([]Training, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// UserPersister is the narrow slice of the user service the training service
// needs to store a not-yet-persisted owner.
type UserPersister interface {
	CreateUser(ctx context.Context, user User) (*User, error)
}

// TrainingService owns the training lifecycle, filtering, and the bulk delete
// backing account removal.
type TrainingService struct {
	repo  TrainingRepository
	users UserPersister
}

// NewTrainingService constructs a TrainingService.
func NewTrainingService(repo TrainingRepository, users UserPersister) *TrainingService {
	return &TrainingService{repo: repo, users: users}
}

// GetTraining fetches a training by ID and fails with ErrTrainingNotFound when
// it is absent.
func (s *TrainingService) GetTraining(ctx context.Context, id string) (*Training, error) {
	training, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if training == nil {
		return nil, ErrTrainingNotFound
	}
	return training, nil
}

// ListTrainings returns every training in storage order.
func (s *TrainingService) ListTrainings(ctx context.Context) ([]Training, error) {
	return s.repo.FindAll(ctx)
}

// ListTrainingsForUser returns every training owned by the given user.
func (s *TrainingService) ListTrainingsForUser(ctx context.Context, userID string) ([]Training, error) {
	return s.repo.FindByUser(ctx, userID)
}

// AddTraining persists a brand-new training. When the owning user has not been
// persisted yet it is stored first, so the training always references a user
// with an assigned ID.
func (s *TrainingService) AddTraining(ctx context.Context, training Training) (*Training, error) {
	if training.ID != "" {
		return nil, ErrTrainingAlreadyPersisted
	}

	if training.User.ID == "" {
		stored, err := s.users.CreateUser(ctx, training.User)
		if err != nil {
			return nil, err
		}
		training.User = *stored
	}

	now := time.Now().UTC()
	training.ID = uuid.NewString()
	training.StartTime = training.StartTime.UTC()
	training.EndTime = training.EndTime.UTC()
	training.CreatedAt = now
	training.UpdatedAt = now

	if err := s.repo.Save(ctx, training); err != nil {
		return nil, err
	}
	return &training, nil
}

// ListFinishedAfter returns every training whose end time is strictly after
// cutoff. The comparison direction is deliberate: the filter selects sessions
// still ending past the cutoff, not ones finished before it.
func (s *TrainingService) ListFinishedAfter(ctx context.Context, cutoff time.Time) ([]Training, error) {
	return s.repo.FindEndedAfter(ctx, cutoff.UTC())
}

// ListByActivityType returns every training recorded with the given activity.
func (s *TrainingService) ListByActivityType(ctx context.Context, activity ActivityType) ([]Training, error) {
	return s.repo.FindByActivityType(ctx, activity)
}

// UpdateTraining replaces the stored record keyed by the training's ID.
func (s *TrainingService) UpdateTraining(ctx context.Context, training Training) (*Training, error) {
	if training.ID == "" {
		return nil, ErrTrainingNotPersisted
	}

	training.StartTime = training.StartTime.UTC()
	training.EndTime = training.EndTime.UTC()
	training.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, training); err != nil {
		return nil, err
	}
	return &training, nil
}

// DeleteUserTrainings removes every training owned by the given user in bulk.
// It is the cascade primitive that must run before the user itself is deleted.
func (s *TrainingService) DeleteUserTrainings(ctx context.Context, userID string) error {
	_, err := s.repo.DeleteByUser(ctx, userID)
	return err
}
