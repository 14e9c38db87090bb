package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/domain"
)

func storeUser(t *testing.T, repo *UserRepository, id, email string, birthdate time.Time) domain.User {
	t.Helper()
	user := domain.User{
		ID:        id,
		FirstName: "Test",
		LastName:  "User",
		Birthdate: birthdate,
		Email:     email,
	}
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func storeTraining(t *testing.T, repo *TrainingRepository, id string, owner domain.User, activity domain.ActivityType, end time.Time) domain.Training {
	t.Helper()
	training := domain.Training{
		ID:           id,
		User:         owner,
		StartTime:    end.Add(-time.Hour),
		EndTime:      end,
		ActivityType: activity,
	}
	require.NoError(t, repo.Save(context.Background(), training))
	return training
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	repo := NewUserRepository()
	stored := storeUser(t, repo, "u1", "one@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	storeUser(t, repo, "u2", "two@example.com", time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC))

	found, err := repo.FindByEmail(context.Background(), "one@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, stored.ID, found.ID)

	missing, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	repo := NewUserRepository()
	stored := storeUser(t, repo, "u1", "dup@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))

	err := repo.Save(context.Background(), domain.User{
		ID:        "u2",
		FirstName: "Other",
		LastName:  "User",
		Birthdate: time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:     "dup@example.com",
	})
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	all, findErr := repo.FindAll(context.Background())
	require.NoError(t, findErr)
	require.Len(t, all, 1)

	// re-saving the owner with its own email is an update, not a conflict
	stored.LastName = "Renamed"
	require.NoError(t, repo.Save(context.Background(), stored))
}

func TestUserRepositoryFindBornBeforeIsStrict(t *testing.T) {
	repo := NewUserRepository()
	cutoff := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)
	older := storeUser(t, repo, "u1", "older@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	storeUser(t, repo, "u2", "younger@example.com", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	storeUser(t, repo, "u3", "boundary@example.com", cutoff)

	matched, err := repo.FindBornBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, older.ID, matched[0].ID)
}

func TestUserRepositoryExistsAndDelete(t *testing.T) {
	repo := NewUserRepository()
	stored := storeUser(t, repo, "u1", "one@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))

	exists, err := repo.ExistsByID(context.Background(), stored.ID)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, repo.Delete(context.Background(), stored.ID))

	exists, err = repo.ExistsByID(context.Background(), stored.ID)
	require.NoError(t, err)
	require.False(t, exists)

	// deleting again stays a no-op
	require.NoError(t, repo.Delete(context.Background(), stored.ID))
}

func TestTrainingRepositoryFindEndedAfterIsStrict(t *testing.T) {
	users := NewUserRepository()
	repo := NewTrainingRepository()
	owner := storeUser(t, users, "u1", "one@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))

	cutoff := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	later := storeTraining(t, repo, "t1", owner, domain.ActivityRunning, cutoff.Add(time.Minute))
	storeTraining(t, repo, "t2", owner, domain.ActivityRunning, cutoff.Add(-time.Minute))
	storeTraining(t, repo, "t3", owner, domain.ActivityRunning, cutoff)

	matched, err := repo.FindEndedAfter(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, later.ID, matched[0].ID)
}

func TestTrainingRepositoryFindByActivityTypePartitions(t *testing.T) {
	users := NewUserRepository()
	repo := NewTrainingRepository()
	owner := storeUser(t, users, "u1", "one@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))

	end := time.Now().UTC()
	storeTraining(t, repo, "t1", owner, domain.ActivityRunning, end)
	storeTraining(t, repo, "t2", owner, domain.ActivityCycling, end)
	storeTraining(t, repo, "t3", owner, domain.ActivityRunning, end)

	running, err := repo.FindByActivityType(context.Background(), domain.ActivityRunning)
	require.NoError(t, err)
	require.Len(t, running, 2)

	swimming, err := repo.FindByActivityType(context.Background(), domain.ActivitySwimming)
	require.NoError(t, err)
	require.Empty(t, swimming)
}

func TestTrainingRepositoryDeleteByUser(t *testing.T) {
	users := NewUserRepository()
	repo := NewTrainingRepository()
	first := storeUser(t, users, "u1", "one@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	second := storeUser(t, users, "u2", "two@example.com", time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC))

	end := time.Now().UTC()
	storeTraining(t, repo, "t1", first, domain.ActivityRunning, end)
	storeTraining(t, repo, "t2", first, domain.ActivityWalking, end)
	storeTraining(t, repo, "t3", second, domain.ActivityTennis, end)

	deleted, err := repo.DeleteByUser(context.Background(), first.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)

	remaining, err := repo.FindByUser(context.Background(), first.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)

	kept, err := repo.FindByUser(context.Background(), second.ID)
	require.NoError(t, err)
	require.Len(t, kept, 1)

	deleted, err = repo.DeleteByUser(context.Background(), first.ID)
	require.NoError(t, err)
	require.Zero(t, deleted)
}
