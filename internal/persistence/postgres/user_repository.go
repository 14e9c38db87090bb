// Package postgres provides pgx-backed persistence for users and trainings,
// recording outbox events inside the write transactions.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/domain"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/events"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/observability"
)

const userColumns = `user_id, first_name, last_name, birthdate, email, created_at, updated_at`

// UserRepository provides Postgres-backed persistence for users.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Save upserts the user and records a user.created outbox event. The event
// carries a dedupe key, so only the first save of a given user emits it.
func (r *UserRepository) Save(ctx context.Context, user domain.User) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const upsert = `INSERT INTO users (user_id, first_name, last_name, birthdate, email, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (user_id) DO UPDATE SET
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            birthdate = EXCLUDED.birthdate,
            email = EXCLUDED.email,
            updated_at = EXCLUDED.updated_at`

	_, err = tx.Exec(ctx, upsert,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Birthdate,
		user.Email,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_email_key" {
			err = domain.ErrEmailTaken
		}
		return err
	}

	if err = insertOutbox(ctx, tx, "user", user.ID, "user.created", user.ID, user.ID+":user.created", events.UserCreated{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Birthdate: user.Birthdate,
		Email:     user.Email,
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}
	observability.RecordUserPersisted(user.UpdatedAt)
	return nil
}

// FindByID retrieves a user by ID, returning nil when absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.queryOne(ctx, query, id)
}

// FindByEmail retrieves the user owning the email, returning nil when none does.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.queryOne(ctx, query, email)
}

// FindAll returns every user in insertion order.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	return r.queryMany(ctx, query)
}

// FindBornBefore returns users whose birthdate is strictly before cutoff.
func (r *UserRepository) FindBornBefore(ctx context.Context, cutoff time.Time) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE birthdate < $1 ORDER BY created_at`
	return r.queryMany(ctx, query, cutoff)
}

// ExistsByID reports whether a user with the ID exists.
func (r *UserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Delete removes the user and records a user.deleted outbox event.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id); err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, "user", id, "user.deleted", id, id+":user.deleted", events.UserDeleted{
		UserID:     id,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}
	observability.RecordUserDeleted()
	return nil
}

func (r *UserRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, query, args...)

	var user domain.User
	if err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Birthdate, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Birthdate, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, user)
	}
	return results, rows.Err()
}
