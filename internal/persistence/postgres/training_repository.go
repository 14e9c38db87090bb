package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/domain"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/events"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/observability"
)

const trainingSelect = `SELECT t.training_id, t.start_time, t.end_time, t.activity_type, t.distance, t.average_speed, t.created_at, t.updated_at,
        u.user_id, u.first_name, u.last_name, u.birthdate, u.email, u.created_at, u.updated_at
        FROM trainings t JOIN users u ON u.user_id = t.user_id`

// TrainingRepository provides Postgres-backed persistence for trainings.
// Reads rehydrate the owning user through a join, so a returned training always
// carries a resolved user.
type TrainingRepository struct {
	pool *pgxpool.Pool
}

// NewTrainingRepository constructs a TrainingRepository.
func NewTrainingRepository(pool *pgxpool.Pool) *TrainingRepository {
	return &TrainingRepository{pool: pool}
}

// Save upserts the training and records a training.created outbox event, keyed
// so that only the first save of a given training emits it.
func (r *TrainingRepository) Save(ctx context.Context, training domain.Training) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const upsert = `INSERT INTO trainings (training_id, user_id, start_time, end_time, activity_type, distance, average_speed, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (training_id) DO UPDATE SET
            user_id = EXCLUDED.user_id,
            start_time = EXCLUDED.start_time,
            end_time = EXCLUDED.end_time,
            activity_type = EXCLUDED.activity_type,
            distance = EXCLUDED.distance,
            average_speed = EXCLUDED.average_speed,
            updated_at = EXCLUDED.updated_at`

	_, err = tx.Exec(ctx, upsert,
		training.ID,
		training.User.ID,
		training.StartTime,
		training.EndTime,
		string(training.ActivityType),
		training.Distance,
		training.AverageSpeed,
		training.CreatedAt,
		training.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, "training", training.ID, "training.created", training.User.ID, training.ID+":training.created", events.TrainingCreated{
		TrainingID:   training.ID,
		UserID:       training.User.ID,
		ActivityType: string(training.ActivityType),
		StartTime:    training.StartTime,
		EndTime:      training.EndTime,
		Distance:     training.Distance,
		AverageSpeed: training.AverageSpeed,
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}
	observability.RecordTrainingPersisted(training.UpdatedAt)
	return nil
}

// FindByID retrieves a training by ID, returning nil when absent.
func (r *TrainingRepository) FindByID(ctx context.Context, id string) (*domain.Training, error) {
	const query = trainingSelect + ` WHERE t.training_id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	training, err := scanTraining(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return training, nil
}

// FindAll returns every training in insertion order.
func (r *TrainingRepository) FindAll(ctx context.Context) ([]domain.Training, error) {
	const query = trainingSelect + ` ORDER BY t.created_at`
	return r.queryMany(ctx, query)
}

// FindByUser returns trainings owned by the given user.
func (r *TrainingRepository) FindByUser(ctx context.Context, userID string) ([]domain.Training, error) {
	const query = trainingSelect + ` WHERE t.user_id = $1 ORDER BY t.created_at`
	return r.queryMany(ctx, query, userID)
}

// FindEndedAfter returns trainings whose end time is strictly after cutoff.
func (r *TrainingRepository) FindEndedAfter(ctx context.Context, cutoff time.Time) ([]domain.Training, error) {
	const query = trainingSelect + ` WHERE t.end_time > $1 ORDER BY t.created_at`
	return r.queryMany(ctx, query, cutoff)
}

// FindByActivityType returns trainings recorded with the given activity.
func (r *TrainingRepository) FindByActivityType(ctx context.Context, activity domain.ActivityType) ([]domain.Training, error) {
	const query = trainingSelect + ` WHERE t.activity_type = $1 ORDER BY t.created_at`
	return r.queryMany(ctx, query, string(activity))
}

// DeleteByUser removes every training owned by the user, records a single
// trainings.deleted outbox event for the batch, and returns the delete count.
func (r *TrainingRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM trainings WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	deleted := tag.RowsAffected()

	if deleted > 0 {
		if err = insertOutbox(ctx, tx, "training", userID, "trainings.deleted", userID, "", events.UserTrainingsDeleted{
			UserID:     userID,
			Deleted:    deleted,
			OccurredAt: time.Now().UTC(),
		}); err != nil {
			return 0, err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return 0, err
	}
	observability.RecordTrainingsDeleted(deleted)
	return deleted, nil
}

func (r *TrainingRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]domain.Training, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Training, 0)
	for rows.Next() {
		training, err := scanTraining(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *training)
	}
	return results, rows.Err()
}

func scanTraining(row pgx.Row) (*domain.Training, error) {
	var training domain.Training
	var activity string
	if err := row.Scan(
		&training.ID,
		&training.StartTime,
		&training.EndTime,
		&activity,
		&training.Distance,
		&training.AverageSpeed,
		&training.CreatedAt,
		&training.UpdatedAt,
		&training.User.ID,
		&training.User.FirstName,
		&training.User.LastName,
		&training.User.Birthdate,
		&training.User.Email,
		&training.User.CreatedAt,
		&training.User.UpdatedAt,
	); err != nil {
		return nil, err
	}
	training.ActivityType = domain.ActivityType(activity)
	return &training, nil
}
