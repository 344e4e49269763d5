package workoutevents

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inbound from the activity-provider sync collaborator.
const (
	WorkoutSyncUpsertedV1 = "workout.sync.upserted.v1"
	WorkoutSyncDeletedV1  = "workout.sync.deleted.v1"
)

// Outbound lifecycle notifications.
const (
	WorkoutCreatedV1 = "workout.created.v1"
	WorkoutUpdatedV1 = "workout.updated.v1"
	WorkoutDeletedV1 = "workout.deleted.v1"
)

// WorkoutSyncUpsertedPayloadV1 carries one activity as fetched from a provider.
// Kcal and IntensityCategory are optional; the workout module derives them.
type WorkoutSyncUpsertedPayloadV1 struct {
	Provider          string              `json:"provider"`
	ExternalID        int64               `json:"external_id"`
	UserID            uuid.UUID           `json:"user_id"`
	SportType         string              `json:"sport_type"`
	StartedAt         time.Time           `json:"started_at"`
	DurationSeconds   int64               `json:"duration_seconds"`
	IntensityCategory *int                `json:"intensity_category,omitempty"`
	Kcal              decimal.NullDecimal `json:"kcal"`
	DistanceKm        decimal.NullDecimal `json:"distance_km"`
	AvgWatts          decimal.NullDecimal `json:"avg_watts"`
}

// WorkoutSyncDeletedPayloadV1 reports an activity removed at the provider.
type WorkoutSyncDeletedPayloadV1 struct {
	Provider   string `json:"provider"`
	ExternalID int64  `json:"external_id"`
}

// WorkoutLifecyclePayloadV1 is published after a workout mutation commits.
type WorkoutLifecyclePayloadV1 struct {
	WorkoutID     uuid.UUID `json:"workout_id"`
	UserID        uuid.UUID `json:"user_id"`
	ChangedFields []string  `json:"changed_fields,omitempty"`
}
