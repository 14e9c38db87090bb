package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	userPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness_tracker",
		Subsystem: "persistence",
		Name:      "last_user_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent user written to storage.",
	})
	trainingPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness_tracker",
		Subsystem: "persistence",
		Name:      "last_training_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent training written to storage.",
	})
	usersDeletedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "persistence",
		Name:      "users_deleted_total",
		Help:      "Number of users permanently removed.",
	})
	trainingsDeletedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "persistence",
		Name:      "trainings_deleted_total",
		Help:      "Number of trainings removed by user-scoped bulk deletes.",
	})
)

func init() {
	prometheus.MustRegister(userPersistGauge, trainingPersistGauge, usersDeletedCounter, trainingsDeletedCounter)
}

// RecordUserPersisted updates the user persistence watermark gauge.
func RecordUserPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	userPersistGauge.Set(float64(ts.Unix()))
}

// RecordTrainingPersisted updates the training persistence watermark gauge.
func RecordTrainingPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	trainingPersistGauge.Set(float64(ts.Unix()))
}

// RecordUserDeleted increments the removed-users counter.
func RecordUserDeleted() {
	usersDeletedCounter.Inc()
}

// RecordTrainingsDeleted adds the size of a bulk delete to the counter.
func RecordTrainingsDeleted(count int64) {
	if count <= 0 {
		return
	}
	trainingsDeletedCounter.Add(float64(count))
}
