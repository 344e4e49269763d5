package workoutdb

import (
	"time"

	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Workout is the persisted form of workoutdomain.Workout.
type Workout struct {
	bun.BaseModel `bun:"table:workouts,alias:w"`

	ID                uuid.UUID           `bun:"id,pk,type:uuid"`
	UserID            uuid.UUID           `bun:"user_id,type:uuid,notnull"`
	SportType         string              `bun:"sport_type,notnull"`
	StartedAt         time.Time           `bun:"started_at,notnull"`
	DurationSeconds   int64               `bun:"duration_seconds,notnull"`
	IntensityCategory int16               `bun:"intensity_category,notnull"`
	Kcal              decimal.Decimal     `bun:"kcal,type:numeric(9,2),notnull"`
	DistanceKm        decimal.NullDecimal `bun:"distance_km,type:numeric(9,2)"`
	ExternalID        *int64              `bun:"external_id,unique"`
	ExternalAvgWatts  decimal.NullDecimal `bun:"external_avg_watts,type:numeric(9,2)"`
	CreatedAt         time.Time           `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time           `bun:"updated_at,notnull,default:current_timestamp"`
}

// ToDomain converts the row into the domain type.
func (w *Workout) ToDomain() workoutdomain.Workout {
	return workoutdomain.Workout{
		ID:               w.ID,
		UserID:           w.UserID,
		SportType:        workoutdomain.SportType(w.SportType),
		StartedAt:        w.StartedAt,
		Duration:         time.Duration(w.DurationSeconds) * time.Second,
		Intensity:        workoutdomain.Intensity(w.IntensityCategory),
		Kcal:             w.Kcal,
		DistanceKm:       w.DistanceKm,
		ExternalID:       w.ExternalID,
		ExternalAvgWatts: w.ExternalAvgWatts,
	}
}

// FromDomain builds a row from the domain type.
func FromDomain(w workoutdomain.Workout) *Workout {
	return &Workout{
		ID:                w.ID,
		UserID:            w.UserID,
		SportType:         string(w.SportType),
		StartedAt:         w.StartedAt,
		DurationSeconds:   int64(w.Duration / time.Second),
		IntensityCategory: int16(w.Intensity),
		Kcal:              w.Kcal,
		DistanceKm:        w.DistanceKm,
		ExternalID:        w.ExternalID,
		ExternalAvgWatts:  w.ExternalAvgWatts,
	}
}
