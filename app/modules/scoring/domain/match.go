package scoringdomain

import (
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidGoalConfiguration is returned when a goal cannot be evaluated.
var ErrInvalidGoalConfiguration = competitiondomain.ErrInvalidGoalConfiguration

// GoalMatch is one goal a workout earns points for.
type GoalMatch struct {
	GoalID        uuid.UUID
	CompetitionID uuid.UUID
	Raw           decimal.Decimal
	// Cap is the effective cap: the goal's own, else the competition default.
	Cap decimal.NullDecimal
}

// Capped returns the points stored for the match.
func (m GoalMatch) Capped() decimal.Decimal {
	return Cap(m.Raw, m.Cap)
}

// Match evaluates w against the goals of the competitions its owner takes
// part in. Competitions whose dates do not contain the workout's start date in
// loc are ignored. Matches come back in competition then goal order.
//
// Any malformed goal aborts the evaluation with ErrInvalidGoalConfiguration.
func Match(w workoutdomain.Workout, active []competitiondomain.CompetitionGoals, loc *time.Location) ([]GoalMatch, error) {
	date := w.CalendarDate(loc)

	var out []GoalMatch
	for _, cg := range active {
		if !cg.Competition.ContainsDate(date) {
			continue
		}
		for _, g := range cg.Goals {
			if err := g.Validate(); err != nil {
				return nil, err
			}
			if !g.AppliesTo(w.SportType) || !meetsThresholds(w, g) {
				continue
			}
			value, ok := metricValue(w, g.Metric)
			if !ok {
				continue
			}
			out = append(out, GoalMatch{
				GoalID:        g.ID,
				CompetitionID: cg.Competition.ID,
				Raw:           RawPoints(value, g.PointsPerUnit),
				Cap:           EffectiveCap(g, cg.Competition),
			})
		}
	}
	return out, nil
}

// RawPoints is value × pointsPerUnit rounded to cents. Negative results are
// clamped to zero.
func RawPoints(value, pointsPerUnit decimal.Decimal) decimal.Decimal {
	raw := value.Mul(pointsPerUnit).Round(2)
	if raw.IsNegative() {
		return decimal.Zero
	}
	return raw
}

func meetsThresholds(w workoutdomain.Workout, g competitiondomain.Goal) bool {
	if g.MinDurationMinutes.Valid && w.DurationMinutes().LessThan(g.MinDurationMinutes.Decimal) {
		return false
	}
	if g.MinDistanceKm.Valid && (!w.DistanceKm.Valid || w.DistanceKm.Decimal.LessThan(g.MinDistanceKm.Decimal)) {
		return false
	}
	if g.MinKcal.Valid && w.Kcal.LessThan(g.MinKcal.Decimal) {
		return false
	}
	return true
}

// metricValue returns the workout quantity for m. A distance goal has nothing
// to measure on a workout without a distance.
func metricValue(w workoutdomain.Workout, m competitiondomain.Metric) (decimal.Decimal, bool) {
	switch m {
	case competitiondomain.MetricKcal:
		return w.Kcal, true
	case competitiondomain.MetricDurationMinutes:
		return w.DurationMinutes(), true
	case competitiondomain.MetricDistanceKm:
		if !w.DistanceKm.Valid {
			return decimal.Zero, false
		}
		return w.DistanceKm.Decimal, true
	case competitiondomain.MetricWorkouts:
		return decimal.NewFromInt(1), true
	}
	return decimal.Zero, false
}
