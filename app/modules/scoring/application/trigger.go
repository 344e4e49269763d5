package scoringservice

import (
	"context"

	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/Black-And-White-Club/fitcomp/pkg/dberrors"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/uptrace/bun"
)

// OnWorkoutCreated books points for a new workout.
func (s *ScoringService) OnWorkoutCreated(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error {
	return s.trigger(ctx, db, "OnWorkoutCreated", eventCreated, w, func(ctx context.Context, db bun.IDB) (reconciliation, error) {
		return s.reconcile(ctx, db, w, eventCreated)
	})
}

// OnWorkoutUpdated re-matches an edited workout. Edits that touch no field
// goal matching reads leave the ledger alone.
func (s *ScoringService) OnWorkoutUpdated(ctx context.Context, db bun.IDB, w workoutdomain.Workout, change workoutdomain.Change) error {
	if !change.AffectsScoring() {
		s.logger.DebugContext(ctx, "Skipping reconciliation for non-scoring change",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("workout_id", w.ID),
			attr.Any("changed_fields", change.Fields()),
		)
		return nil
	}
	return s.trigger(ctx, db, "OnWorkoutUpdated", eventUpdated, w, func(ctx context.Context, db bun.IDB) (reconciliation, error) {
		return s.reconcile(ctx, db, w, eventUpdated)
	})
}

// OnWorkoutDeleted removes every point row of the workout.
func (s *ScoringService) OnWorkoutDeleted(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error {
	return s.trigger(ctx, db, "OnWorkoutDeleted", eventDeleted, w, func(ctx context.Context, db bun.IDB) (reconciliation, error) {
		return s.clear(ctx, db, w)
	})
}

// trigger runs op inside the caller's transaction when db is set. The caller
// then owns retries and publishing. Otherwise op gets its own transaction,
// one retry, and its event is published after commit.
func (s *ScoringService) trigger(
	ctx context.Context,
	db bun.IDB,
	operationName string,
	event string,
	w workoutdomain.Workout,
	op func(ctx context.Context, db bun.IDB) (reconciliation, error),
) error {
	ownTx := db == nil

	result, err := withTelemetry(s, ctx, operationName, w.ID.String(), func(ctx context.Context) (reconciliationResult, error) {
		run := func(ctx context.Context, db bun.IDB) (reconciliationResult, error) {
			rec, err := op(ctx, db)
			if err != nil {
				return reconciliationResult{}, err
			}
			return results.SuccessResult[reconciliation, error](rec), nil
		}
		if ownTx {
			return runInTxWithRetry(s, ctx, event, run)
		}
		result, err := run(ctx, db)
		return result, dberrors.Classify(err)
	})
	rec, err := unwrap(result, err)
	if err != nil {
		return err
	}

	s.metrics.RecordReconciliation(ctx, event, rec.inserted, rec.updated, rec.deleted)
	if ownTx {
		s.publish(ctx, rec)
	}
	return nil
}
