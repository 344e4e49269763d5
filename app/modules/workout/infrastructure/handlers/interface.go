package workouthandlers

import (
	"context"

	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
)

// Handlers defines the interface for workout event handlers.
type Handlers interface {
	// HandleSyncUpserted stores an activity reported by the sync collaborator.
	HandleSyncUpserted(ctx context.Context, payload *workoutevents.WorkoutSyncUpsertedPayloadV1) ([]handlerwrapper.Result, error)

	// HandleSyncDeleted removes an activity the provider no longer has.
	HandleSyncDeleted(ctx context.Context, payload *workoutevents.WorkoutSyncDeletedPayloadV1) ([]handlerwrapper.Result, error)
}
