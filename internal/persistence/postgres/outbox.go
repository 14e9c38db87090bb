package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// eventMetadata describes how to route an outbox event.
type eventMetadata struct {
	Topic         string
	SchemaSubject string
}

var eventCatalog = map[string]eventMetadata{
	"user.created": {
		Topic:         "user_events",
		SchemaSubject: "user_events-value",
	},
	"user.deleted": {
		Topic:         "user_events",
		SchemaSubject: "user_events-value",
	},
	"training.created": {
		Topic:         "training_events",
		SchemaSubject: "training_events-value",
	},
	"trainings.deleted": {
		Topic:         "training_events",
		SchemaSubject: "training_events-value",
	},
}

// insertOutbox records an event in the same transaction as the write it
// describes. A non-empty dedupe key makes replays of the same write silent.
func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType, partitionKey, dedupeKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = tx.Exec(ctx, stmt,
		aggregateType,
		aggregateID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		partitionKey,
		body,
		nullIfEmpty(dedupeKey),
	)
	return err
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
