package competitiondomain

import (
	"errors"
	"fmt"
	"strings"

	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidGoalConfiguration marks a goal whose predicate or formula cannot be evaluated.
var ErrInvalidGoalConfiguration = errors.New("invalid goal configuration")

// Metric is the workout quantity a goal awards points for.
type Metric string

const (
	MetricKcal            Metric = "kcal"
	MetricDurationMinutes Metric = "duration_minutes"
	MetricDistanceKm      Metric = "distance_km"
	MetricWorkouts        Metric = "workouts"
)

func (m Metric) Valid() bool {
	switch m {
	case MetricKcal, MetricDurationMinutes, MetricDistanceKm, MetricWorkouts:
		return true
	}
	return false
}

// Goal awards PointsPerUnit for every unit of Metric in a matching workout.
// A workout matches when its sport is in SportGroup or SportTypes and it
// reaches every threshold that is set.
type Goal struct {
	ID                 uuid.UUID
	CompetitionID      uuid.UUID
	Name               string
	SportGroup         workoutdomain.SportGroup
	SportTypes         []workoutdomain.SportType
	Metric             Metric
	PointsPerUnit      decimal.Decimal
	MinDurationMinutes decimal.NullDecimal
	MinDistanceKm      decimal.NullDecimal
	MinKcal            decimal.NullDecimal
	Cap                decimal.NullDecimal
}

// Validate returns an error wrapping ErrInvalidGoalConfiguration when the goal
// cannot be evaluated.
func (g Goal) Validate() error {
	invalid := func(reason string) error {
		return fmt.Errorf("%w: goal %s: %s", ErrInvalidGoalConfiguration, g.ID, reason)
	}

	if strings.TrimSpace(g.Name) == "" {
		return invalid("name is required")
	}
	if g.SportGroup == "" && len(g.SportTypes) == 0 {
		return invalid("a sport group or at least one sport type is required")
	}
	if g.SportGroup != "" && !g.SportGroup.Valid() {
		return invalid(fmt.Sprintf("unknown sport group %q", g.SportGroup))
	}
	for _, st := range g.SportTypes {
		if !st.Valid() {
			return invalid(fmt.Sprintf("unknown sport type %q", st))
		}
	}
	if !g.Metric.Valid() {
		return invalid(fmt.Sprintf("unknown metric %q", g.Metric))
	}
	if g.PointsPerUnit.IsNegative() {
		return invalid("points per unit cannot be negative")
	}
	thresholds := []struct {
		name  string
		value decimal.NullDecimal
	}{
		{"min duration", g.MinDurationMinutes},
		{"min distance", g.MinDistanceKm},
		{"min kcal", g.MinKcal},
		{"cap", g.Cap},
	}
	for _, th := range thresholds {
		if th.value.Valid && th.value.Decimal.IsNegative() {
			return invalid(th.name + " cannot be negative")
		}
	}
	return nil
}

// AppliesTo reports whether sport is covered by the goal's group or explicit types.
func (g Goal) AppliesTo(sport workoutdomain.SportType) bool {
	if g.SportGroup != "" && g.SportGroup.Contains(sport) {
		return true
	}
	for _, st := range g.SportTypes {
		if st == sport {
			return true
		}
	}
	return false
}

// CompetitionGoals is one competition together with its goals, in goal order.
type CompetitionGoals struct {
	Competition Competition
	Goals       []Goal
}
