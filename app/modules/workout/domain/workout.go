package workoutdomain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidWorkout is wrapped by every validation failure of a Draft.
var ErrInvalidWorkout = errors.New("invalid workout")

// Workout is a logged activity. Kcal is always populated once the workout
// has been built from a Draft.
type Workout struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	SportType        SportType
	StartedAt        time.Time
	Duration         time.Duration
	Intensity        Intensity
	Kcal             decimal.Decimal
	DistanceKm       decimal.NullDecimal
	ExternalID       *int64
	ExternalAvgWatts decimal.NullDecimal
}

// Draft is user or provider input for creating or replacing a workout.
// Nil Intensity and null Kcal are derived.
type Draft struct {
	UserID           uuid.UUID
	SportType        SportType
	StartedAt        time.Time
	Duration         time.Duration
	Intensity        *Intensity
	Kcal             decimal.NullDecimal
	DistanceKm       decimal.NullDecimal
	ExternalID       *int64
	ExternalAvgWatts decimal.NullDecimal
}

// Validate checks the draft without deriving anything.
func (d Draft) Validate() error {
	switch {
	case d.UserID == uuid.Nil:
		return fmt.Errorf("%w: user is required", ErrInvalidWorkout)
	case !d.SportType.Valid():
		return fmt.Errorf("%w: unknown sport type %q", ErrInvalidWorkout, d.SportType)
	case d.StartedAt.IsZero():
		return fmt.Errorf("%w: start time is required", ErrInvalidWorkout)
	case d.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidWorkout)
	case d.Intensity != nil && !d.Intensity.Valid():
		return fmt.Errorf("%w: intensity must be between 1 and 4", ErrInvalidWorkout)
	case d.Kcal.Valid && d.Kcal.Decimal.IsNegative():
		return fmt.Errorf("%w: kcal cannot be negative", ErrInvalidWorkout)
	case d.DistanceKm.Valid && d.DistanceKm.Decimal.IsNegative():
		return fmt.Errorf("%w: distance cannot be negative", ErrInvalidWorkout)
	}
	return nil
}

// Build validates the draft and derives defaults. scalingKcal is the owner's
// personal kcal scaling factor.
func (d Draft) Build(id uuid.UUID, scalingKcal decimal.Decimal) (Workout, error) {
	if err := d.Validate(); err != nil {
		return Workout{}, err
	}

	intensity := DefaultIntensity
	if d.Intensity != nil {
		intensity = *d.Intensity
	}

	kcal := d.Kcal.Decimal.Round(2)
	if !d.Kcal.Valid {
		kcal = EstimateKcal(d.SportType, intensity, d.Duration, scalingKcal)
	}

	return Workout{
		ID:               id,
		UserID:           d.UserID,
		SportType:        d.SportType,
		StartedAt:        d.StartedAt,
		Duration:         d.Duration,
		Intensity:        intensity,
		Kcal:             kcal,
		DistanceKm:       roundNull(d.DistanceKm),
		ExternalID:       d.ExternalID,
		ExternalAvgWatts: roundNull(d.ExternalAvgWatts),
	}, nil
}

func roundNull(v decimal.NullDecimal) decimal.NullDecimal {
	if !v.Valid {
		return v
	}
	return decimal.NewNullDecimal(v.Decimal.Round(2))
}

// DurationMinutes is the duration as a decimal number of minutes.
func (w Workout) DurationMinutes() decimal.Decimal {
	return decimal.NewFromInt(int64(w.Duration / time.Second)).Div(decimal.NewFromInt(60))
}

// CalendarDate returns the start date of the workout in loc, expressed as
// midnight UTC so dates compare across zones.
func (w Workout) CalendarDate(loc *time.Location) time.Time {
	return DateOf(w.StartedAt, loc)
}

// DateOf truncates t to its calendar day in loc and returns that day at midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
