package scoringdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for the point ledger.
type Repository interface {
	// AcquireWorkoutLock serializes ledger writes for one workout until the
	// surrounding transaction ends.
	AcquireWorkoutLock(ctx context.Context, db bun.IDB, workoutID uuid.UUID) error

	// ListByWorkout returns every point row of a workout, goal rows first.
	ListByWorkout(ctx context.Context, db bun.IDB, workoutID uuid.UUID) ([]LedgerPoint, error)

	InsertPoints(ctx context.Context, db bun.IDB, points []Point) error
	UpdatePoint(ctx context.Context, db bun.IDB, point Point) error
	DeletePoints(ctx context.Context, db bun.IDB, ids []uuid.UUID) error

	// DeleteByWorkout removes all rows of a workout, awards included.
	DeleteByWorkout(ctx context.Context, db bun.IDB, workoutID uuid.UUID) (int, error)

	// UpsertAward grants or regrants an award on a workout.
	UpsertAward(ctx context.Context, db bun.IDB, point Point) error
}
