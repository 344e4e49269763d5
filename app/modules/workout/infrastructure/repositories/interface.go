package workoutdb

import (
	"context"
	"time"

	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for workout persistence.
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error)
	// GetByIDForUpdate locks the workout row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error)
	GetByExternalID(ctx context.Context, db bun.IDB, externalID int64) (*workoutdomain.Workout, error)
	Insert(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error
	Update(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error
	Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error
	ListByUser(ctx context.Context, db bun.IDB, userID uuid.UUID, limit int) ([]workoutdomain.Workout, error)

	// ListIDsForUsersBetween returns the ids of workouts owned by userIDs that
	// started in [from, to).
	ListIDsForUsersBetween(ctx context.Context, db bun.IDB, userIDs []uuid.UUID, from, to time.Time) ([]uuid.UUID, error)
}
