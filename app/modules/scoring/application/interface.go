package scoringservice

import (
	"context"
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Service keeps the point ledger consistent with workouts and goals.
type Service interface {
	// OnWorkoutCreated, OnWorkoutUpdated and OnWorkoutDeleted run inside db
	// when it is a transaction. With a nil db they open their own.
	OnWorkoutCreated(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error
	OnWorkoutUpdated(ctx context.Context, db bun.IDB, w workoutdomain.Workout, change workoutdomain.Change) error
	OnWorkoutDeleted(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error

	// GrantAward books points for a manual award on a workout. Granting the
	// same award twice replaces the earlier amount.
	GrantAward(ctx context.Context, actorID, awardID, workoutID uuid.UUID, points decimal.Decimal) error

	RecomputeWorkout(ctx context.Context, workoutID uuid.UUID) error
	RecomputeWorkouts(ctx context.Context, workoutIDs []uuid.UUID) error

	// RecomputeCompetition reconciles every workout of the given members
	// inside the competition window, or of all members when userIDs is empty.
	// It returns the number of workouts visited.
	RecomputeCompetition(ctx context.Context, competitionID uuid.UUID, userIDs []uuid.UUID) (int, error)
}

// CompetitionLookup is the read side of the competition store scoring needs.
type CompetitionLookup interface {
	ListActiveGoalsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID, date time.Time) ([]competitiondomain.CompetitionGoals, error)
	GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Competition, error)
	GetAward(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Award, error)
	IsMember(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error)
	ListMemberIDs(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]uuid.UUID, error)
}

// WorkoutLookup is the read side of the workout store scoring needs.
type WorkoutLookup interface {
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error)
	ListIDsForUsersBetween(ctx context.Context, db bun.IDB, userIDs []uuid.UUID, from, to time.Time) ([]uuid.UUID, error)
}
