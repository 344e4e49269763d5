package scoringqueue

import (
	"context"

	"github.com/google/uuid"
)

// Inline runs recomputes synchronously. It stands in for the River queue in
// one-shot commands and when no queue DSN is configured.
type Inline struct {
	Recomputer Recomputer
}

func (q Inline) EnqueueWorkoutRecompute(ctx context.Context, workoutID uuid.UUID) error {
	return q.Recomputer.RecomputeWorkout(ctx, workoutID)
}

func (q Inline) EnqueueCompetitionRecompute(ctx context.Context, competitionID uuid.UUID, userIDs []uuid.UUID, _ string) error {
	_, err := q.Recomputer.RecomputeCompetition(ctx, competitionID, userIDs)
	return err
}
