package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/domain"
)

// TrainingRepository keeps trainings in a mutex-guarded map. Filters walk the
// full collection, which is acceptable at the scale this store targets.
type TrainingRepository struct {
	mu        sync.RWMutex
	trainings map[string]domain.Training
}

// NewTrainingRepository constructs an empty TrainingRepository.
func NewTrainingRepository() *TrainingRepository {
	return &TrainingRepository{trainings: make(map[string]domain.Training)}
}

// Save implements domain.TrainingRepository as insert-or-replace.
func (r *TrainingRepository) Save(ctx context.Context, training domain.Training) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trainings[training.ID] = training
	return nil
}

// FindByID returns the training or nil when absent.
func (r *TrainingRepository) FindByID(ctx context.Context, id string) (*domain.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	training, ok := r.trainings[id]
	if !ok {
		return nil, nil
	}
	return &training, nil
}

// FindAll returns every stored training.
func (r *TrainingRepository) FindAll(ctx context.Context) ([]domain.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Training, 0, len(r.trainings))
	for _, training := range r.trainings {
		out = append(out, training)
	}
	return out, nil
}

// FindByUser returns trainings owned by the given user.
func (r *TrainingRepository) FindByUser(ctx context.Context, userID string) ([]domain.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Training, 0)
	for _, training := range r.trainings {
		if training.User.ID == userID {
			out = append(out, training)
		}
	}
	return out, nil
}

// FindEndedAfter returns trainings whose end time is strictly after cutoff.
func (r *TrainingRepository) FindEndedAfter(ctx context.Context, cutoff time.Time) ([]domain.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Training, 0)
	for _, training := range r.trainings {
		if training.EndTime.After(cutoff) {
			out = append(out, training)
		}
	}
	return out, nil
}

// FindByActivityType returns trainings recorded with the given activity.
func (r *TrainingRepository) FindByActivityType(ctx context.Context, activity domain.ActivityType) ([]domain.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Training, 0)
	for _, training := range r.trainings {
		if training.ActivityType == activity {
			out = append(out, training)
		}
	}
	return out, nil
}

// DeleteByUser removes every training owned by the user and returns the count.
func (r *TrainingRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, training := range r.trainings {
		if training.User.ID == userID {
			delete(r.trainings, id)
			deleted++
		}
	}
	return deleted, nil
}
