package scoringqueue

import "github.com/google/uuid"

// RecomputeWorkoutArgs reconciles one workout. Jobs are unique per workout
// among unfinished jobs, so a finished recompute never blocks the next one.
type RecomputeWorkoutArgs struct {
	WorkoutID uuid.UUID `json:"workout_id"`
}

// Kind returns the job type identifier for River.
func (RecomputeWorkoutArgs) Kind() string { return "recompute_workout" }

// RecomputeCompetitionArgs reconciles the workouts of a competition's
// members. Revision identifies the change that asked for it, so a redelivered
// event does not queue the same work twice while the first job is unfinished
// and a new change always does.
type RecomputeCompetitionArgs struct {
	CompetitionID uuid.UUID   `json:"competition_id" river:"unique"`
	UserIDs       []uuid.UUID `json:"user_ids,omitempty" river:"unique"`
	Revision      string      `json:"revision" river:"unique"`
}

// Kind returns the job type identifier for River.
func (RecomputeCompetitionArgs) Kind() string { return "recompute_competition" }
