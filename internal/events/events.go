// Package events defines the payloads published through the outbox.
package events

import "time"

// UserCreated is emitted when a new user is first persisted.
type UserCreated struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Birthdate time.Time `json:"birthdate"`
	Email     string    `json:"email"`
}

// UserDeleted is emitted when a user is permanently removed.
type UserDeleted struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TrainingCreated is emitted when a new training is first persisted.
type TrainingCreated struct {
	TrainingID   string    `json:"training_id"`
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Distance     float64   `json:"distance"`
	AverageSpeed float64   `json:"average_speed"`
}

// UserTrainingsDeleted is emitted when a user's trainings are removed in bulk
// ahead of account deletion.
type UserTrainingsDeleted struct {
	UserID     string    `json:"user_id"`
	Deleted    int64     `json:"deleted"`
	OccurredAt time.Time `json:"occurred_at"`
}
