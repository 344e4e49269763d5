package workoutservice

import (
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
)

// mutation is the committed outcome of a write, carrying the event to emit.
type mutation struct {
	workout workoutdomain.Workout
	topic   string
	changed []string
}

func (m *mutation) payload() workoutevents.WorkoutLifecyclePayloadV1 {
	return workoutevents.WorkoutLifecyclePayloadV1{
		WorkoutID:     m.workout.ID,
		UserID:        m.workout.UserID,
		ChangedFields: m.changed,
	}
}
