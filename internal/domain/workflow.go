package domain

import "context"

// UserRemover coordinates account removal across both services. Trainings hold
// a mandatory reference to their user, so they are deleted first; removing a
// user through UserService.DeleteUser directly would leave dangling trainings
// behind.
type UserRemover struct {
	users     *UserService
	trainings *TrainingService
}

// NewUserRemover constructs a UserRemover.
func NewUserRemover(users *UserService, trainings *TrainingService) *UserRemover {
	return &UserRemover{users: users, trainings: trainings}
}

// Remove deletes every training owned by the user and then the user itself.
// It fails with ErrUserNotFound when no such user exists.
func (r *UserRemover) Remove(ctx context.Context, userID string) error {
	if err := r.trainings.DeleteUserTrainings(ctx, userID); err != nil {
		return err
	}
	return r.users.DeleteUser(ctx, userID)
}
