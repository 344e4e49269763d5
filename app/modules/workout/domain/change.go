package workoutdomain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field is the old and new value of one changed workout field.
type Field[T any] struct {
	Old T
	New T
}

// Change is the typed set of fields that differ between two versions of a
// workout. A nil entry means the field is unchanged.
type Change struct {
	UserID           *Field[uuid.UUID]
	SportType        *Field[SportType]
	StartedAt        *Field[time.Time]
	Duration         *Field[time.Duration]
	Intensity        *Field[Intensity]
	Kcal             *Field[decimal.Decimal]
	DistanceKm       *Field[decimal.NullDecimal]
	ExternalID       *Field[*int64]
	ExternalAvgWatts *Field[decimal.NullDecimal]
}

// Diff compares two versions of the same workout. Decimals compare at two
// decimal places.
func Diff(old, updated Workout) Change {
	var c Change
	if old.UserID != updated.UserID {
		c.UserID = &Field[uuid.UUID]{Old: old.UserID, New: updated.UserID}
	}
	if old.SportType != updated.SportType {
		c.SportType = &Field[SportType]{Old: old.SportType, New: updated.SportType}
	}
	if !old.StartedAt.Equal(updated.StartedAt) {
		c.StartedAt = &Field[time.Time]{Old: old.StartedAt, New: updated.StartedAt}
	}
	if old.Duration != updated.Duration {
		c.Duration = &Field[time.Duration]{Old: old.Duration, New: updated.Duration}
	}
	if old.Intensity != updated.Intensity {
		c.Intensity = &Field[Intensity]{Old: old.Intensity, New: updated.Intensity}
	}
	if !old.Kcal.Round(2).Equal(updated.Kcal.Round(2)) {
		c.Kcal = &Field[decimal.Decimal]{Old: old.Kcal, New: updated.Kcal}
	}
	if !nullEqual(old.DistanceKm, updated.DistanceKm) {
		c.DistanceKm = &Field[decimal.NullDecimal]{Old: old.DistanceKm, New: updated.DistanceKm}
	}
	if !int64PtrEqual(old.ExternalID, updated.ExternalID) {
		c.ExternalID = &Field[*int64]{Old: old.ExternalID, New: updated.ExternalID}
	}
	if !nullEqual(old.ExternalAvgWatts, updated.ExternalAvgWatts) {
		c.ExternalAvgWatts = &Field[decimal.NullDecimal]{Old: old.ExternalAvgWatts, New: updated.ExternalAvgWatts}
	}
	return c
}

// IsEmpty reports whether nothing changed.
func (c Change) IsEmpty() bool {
	return len(c.Fields()) == 0
}

// AffectsScoring reports whether any field read by goal matching changed.
// Provider bookkeeping fields do not count.
func (c Change) AffectsScoring() bool {
	return c.UserID != nil ||
		c.SportType != nil ||
		c.StartedAt != nil ||
		c.Duration != nil ||
		c.Intensity != nil ||
		c.Kcal != nil ||
		c.DistanceKm != nil
}

// Fields lists the names of changed fields in declaration order.
func (c Change) Fields() []string {
	var out []string
	add := func(changed bool, name string) {
		if changed {
			out = append(out, name)
		}
	}
	add(c.UserID != nil, "user_id")
	add(c.SportType != nil, "sport_type")
	add(c.StartedAt != nil, "started_at")
	add(c.Duration != nil, "duration")
	add(c.Intensity != nil, "intensity")
	add(c.Kcal != nil, "kcal")
	add(c.DistanceKm != nil, "distance_km")
	add(c.ExternalID != nil, "external_id")
	add(c.ExternalAvgWatts != nil, "external_avg_watts")
	return out
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Round(2).Equal(b.Decimal.Round(2))
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
