package scoringhandlers

import (
	"context"

	competitionevents "github.com/Black-And-White-Club/fitcomp/pkg/events/competition"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/google/uuid"
)

// Handlers handles competition events that invalidate stored points.
type Handlers interface {
	HandleGoalsChanged(ctx context.Context, payload *competitionevents.GoalsChangedPayloadV1) ([]handlerwrapper.Result, error)
	HandleMembershipChanged(ctx context.Context, payload *competitionevents.MembershipChangedPayloadV1) ([]handlerwrapper.Result, error)
}

// Enqueuer schedules recompute work.
type Enqueuer interface {
	EnqueueWorkoutRecompute(ctx context.Context, workoutID uuid.UUID) error
	EnqueueCompetitionRecompute(ctx context.Context, competitionID uuid.UUID, userIDs []uuid.UUID, revision string) error
}
