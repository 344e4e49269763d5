package scoringservice

import (
	"context"
	"errors"
	"fmt"

	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// RecomputeWorkout reloads a workout and reconciles its ledger in a fresh
// transaction. A workout deleted in the meantime is skipped.
func (s *ScoringService) RecomputeWorkout(ctx context.Context, workoutID uuid.UUID) error {
	result, err := withTelemetry(s, ctx, "RecomputeWorkout", workoutID.String(), func(ctx context.Context) (reconciliationResult, error) {
		return runInTxWithRetry(s, ctx, eventRecompute, func(ctx context.Context, db bun.IDB) (reconciliationResult, error) {
			w, err := s.workouts.GetByID(ctx, db, workoutID)
			if err != nil {
				if errors.Is(err, workoutdb.ErrNotFound) {
					return results.SuccessResult[reconciliation, error](reconciliation{event: eventRecompute}), nil
				}
				return reconciliationResult{}, err
			}
			rec, err := s.reconcile(ctx, db, *w, eventRecompute)
			if err != nil {
				return reconciliationResult{}, err
			}
			return results.SuccessResult[reconciliation, error](rec), nil
		})
	})
	rec, err := unwrap(result, err)
	if err != nil {
		return err
	}
	s.metrics.RecordReconciliation(ctx, eventRecompute, rec.inserted, rec.updated, rec.deleted)
	s.publish(ctx, rec)
	return nil
}

// RecomputeWorkouts reconciles workouts in parallel, bounded by the configured
// concurrency. The first failure cancels the remaining work.
func (s *ScoringService) RecomputeWorkouts(ctx context.Context, workoutIDs []uuid.UUID) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range workoutIDs {
		g.Go(func() error {
			return s.RecomputeWorkout(ctx, id)
		})
	}
	return g.Wait()
}

func (s *ScoringService) RecomputeCompetition(ctx context.Context, competitionID uuid.UUID, userIDs []uuid.UUID) (int, error) {
	c, err := s.competitions.GetCompetition(ctx, nil, competitionID)
	if err != nil {
		return 0, fmt.Errorf("RecomputeCompetition: %w", err)
	}
	members, err := s.competitions.ListMemberIDs(ctx, nil, competitionID)
	if err != nil {
		return 0, fmt.Errorf("RecomputeCompetition: %w", err)
	}
	members = restrictTo(members, userIDs)
	if len(members) == 0 {
		return 0, nil
	}

	from, to := c.Window(s.loc)
	ids, err := s.workouts.ListIDsForUsersBetween(ctx, nil, members, from, to)
	if err != nil {
		return 0, fmt.Errorf("RecomputeCompetition: %w", err)
	}

	s.logger.InfoContext(ctx, "Recomputing competition",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("competition_id", competitionID),
		attr.Int("members", len(members)),
		attr.Int("workouts", len(ids)),
	)
	if err := s.RecomputeWorkouts(ctx, ids); err != nil {
		return 0, fmt.Errorf("RecomputeCompetition: %w", err)
	}
	return len(ids), nil
}

// restrictTo keeps the members listed in only. An empty filter keeps everyone.
func restrictTo(members, only []uuid.UUID) []uuid.UUID {
	if len(only) == 0 {
		return members
	}
	keep := make(map[uuid.UUID]struct{}, len(only))
	for _, id := range only {
		keep[id] = struct{}{}
	}
	out := members[:0:0]
	for _, id := range members {
		if _, ok := keep[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
