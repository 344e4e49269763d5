package workoutservice

import (
	"context"

	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the workout operations.
type Service interface {
	CreateWorkout(ctx context.Context, draft workoutdomain.Draft) (*workoutdomain.Workout, error)
	UpdateWorkout(ctx context.Context, actorID, workoutID uuid.UUID, draft workoutdomain.Draft) (*workoutdomain.Workout, error)
	DeleteWorkout(ctx context.Context, actorID, workoutID uuid.UUID) error
	GetWorkout(ctx context.Context, workoutID uuid.UUID) (*workoutdomain.Workout, error)
	ListUserWorkouts(ctx context.Context, userID uuid.UUID, limit int) ([]workoutdomain.Workout, error)

	UpsertFromSync(ctx context.Context, payload workoutevents.WorkoutSyncUpsertedPayloadV1) (*workoutdomain.Workout, error)
	DeleteFromSync(ctx context.Context, externalID int64) error
}

// ScoringTrigger keeps the point ledger in step with workout mutations. It
// runs inside the caller's transaction.
type ScoringTrigger interface {
	OnWorkoutCreated(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error
	OnWorkoutUpdated(ctx context.Context, db bun.IDB, w workoutdomain.Workout, change workoutdomain.Change) error
	OnWorkoutDeleted(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error
}

// UserLookup resolves the owner of a workout.
type UserLookup interface {
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*userdb.User, error)
}
