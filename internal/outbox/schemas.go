package outbox

const userCreatedSchema = `{
  "type": "object",
  "title": "UserCreated",
  "properties": {
    "user_id": {"type": "string"},
    "first_name": {"type": "string"},
    "last_name": {"type": "string"},
    "birthdate": {"type": "string", "format": "date-time"},
    "email": {"type": "string"}
  },
  "required": ["user_id", "first_name", "last_name", "birthdate", "email"],
  "additionalProperties": false
}`

const userDeletedSchema = `{
  "type": "object",
  "title": "UserDeleted",
  "properties": {
    "user_id": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["user_id", "occurred_at"],
  "additionalProperties": false
}`

const trainingCreatedSchema = `{
  "type": "object",
  "title": "TrainingCreated",
  "properties": {
    "training_id": {"type": "string"},
    "user_id": {"type": "string"},
    "activity_type": {"type": "string"},
    "start_time": {"type": "string", "format": "date-time"},
    "end_time": {"type": "string", "format": "date-time"},
    "distance": {"type": "number"},
    "average_speed": {"type": "number"}
  },
  "required": ["training_id", "user_id", "activity_type", "start_time", "end_time", "distance", "average_speed"],
  "additionalProperties": false
}`

const userTrainingsDeletedSchema = `{
  "type": "object",
  "title": "UserTrainingsDeleted",
  "properties": {
    "user_id": {"type": "string"},
    "deleted": {"type": "integer"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["user_id", "deleted", "occurred_at"],
  "additionalProperties": false
}`

// SchemaCatalogEntry maps event type to schema definition.
type SchemaCatalogEntry struct {
	Schema string
}

var schemaCatalog = map[string]SchemaCatalogEntry{
	"user.created": {
		Schema: userCreatedSchema,
	},
	"user.deleted": {
		Schema: userDeletedSchema,
	},
	"training.created": {
		Schema: trainingCreatedSchema,
	},
	"trainings.deleted": {
		Schema: userTrainingsDeletedSchema,
	},
}
