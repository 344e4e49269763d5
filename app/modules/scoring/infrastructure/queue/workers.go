package scoringqueue

import (
	"context"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// Recomputer is the part of the scoring service the workers drive.
type Recomputer interface {
	RecomputeWorkout(ctx context.Context, workoutID uuid.UUID) error
	RecomputeCompetition(ctx context.Context, competitionID uuid.UUID, userIDs []uuid.UUID) (int, error)
}

// RecomputeWorkoutWorker runs recompute_workout jobs.
type RecomputeWorkoutWorker struct {
	river.WorkerDefaults[RecomputeWorkoutArgs]
	recomputer Recomputer
	logger     *slog.Logger
}

func NewRecomputeWorkoutWorker(recomputer Recomputer, logger *slog.Logger) *RecomputeWorkoutWorker {
	return &RecomputeWorkoutWorker{recomputer: recomputer, logger: logger}
}

func (w *RecomputeWorkoutWorker) Work(ctx context.Context, job *river.Job[RecomputeWorkoutArgs]) error {
	w.logger.DebugContext(ctx, "Running workout recompute job",
		attr.Int64("job_id", job.ID),
		attr.UUID("workout_id", job.Args.WorkoutID),
	)
	return w.recomputer.RecomputeWorkout(ctx, job.Args.WorkoutID)
}

// RecomputeCompetitionWorker runs recompute_competition jobs.
type RecomputeCompetitionWorker struct {
	river.WorkerDefaults[RecomputeCompetitionArgs]
	recomputer Recomputer
	logger     *slog.Logger
}

func NewRecomputeCompetitionWorker(recomputer Recomputer, logger *slog.Logger) *RecomputeCompetitionWorker {
	return &RecomputeCompetitionWorker{recomputer: recomputer, logger: logger}
}

func (w *RecomputeCompetitionWorker) Work(ctx context.Context, job *river.Job[RecomputeCompetitionArgs]) error {
	start := time.Now()
	n, err := w.recomputer.RecomputeCompetition(ctx, job.Args.CompetitionID, job.Args.UserIDs)
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Competition recompute job finished",
		attr.Int64("job_id", job.ID),
		attr.UUID("competition_id", job.Args.CompetitionID),
		attr.Int("workouts", n),
		attr.Duration("took", time.Since(start)),
	)
	return nil
}

// Timeout bounds a whole-competition recompute.
func (w *RecomputeCompetitionWorker) Timeout(*river.Job[RecomputeCompetitionArgs]) time.Duration {
	return 10 * time.Minute
}
