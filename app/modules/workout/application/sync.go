package workoutservice

import (
	"context"
	"errors"
	"strconv"
	"time"

	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// draftFromSync maps a provider activity onto a workout draft.
func draftFromSync(p workoutevents.WorkoutSyncUpsertedPayloadV1) workoutdomain.Draft {
	externalID := p.ExternalID
	d := workoutdomain.Draft{
		UserID:           p.UserID,
		SportType:        workoutdomain.SportType(p.SportType),
		StartedAt:        p.StartedAt,
		Duration:         time.Duration(p.DurationSeconds) * time.Second,
		Kcal:             p.Kcal,
		DistanceKm:       p.DistanceKm,
		ExternalID:       &externalID,
		ExternalAvgWatts: p.AvgWatts,
	}
	if p.IntensityCategory != nil {
		i := workoutdomain.Intensity(*p.IntensityCategory)
		d.Intensity = &i
	}
	if !d.SportType.Valid() {
		d.SportType = workoutdomain.SportWorkout
	}
	return d
}

// UpsertFromSync creates or replaces the workout identified by the provider's
// external id. Unknown provider sport types are stored as a generic workout.
func (s *WorkoutService) UpsertFromSync(ctx context.Context, payload workoutevents.WorkoutSyncUpsertedPayloadV1) (*workoutdomain.Workout, error) {
	draft := draftFromSync(payload)
	newID := uuid.New()

	result, err := withTelemetry(s, ctx, "UpsertFromSync", strconv.FormatInt(payload.ExternalID, 10), func(ctx context.Context) (mutationResult, error) {
		if err := draft.Validate(); err != nil {
			return results.FailureResult[*mutation, error](err), nil
		}
		return runInTxWithRetry(s, ctx, func(ctx context.Context, db bun.IDB) (mutationResult, error) {
			existing, err := s.repo.GetByExternalID(ctx, db, payload.ExternalID)
			switch {
			case errors.Is(err, workoutdb.ErrNotFound):
				return s.createLogic(ctx, db, newID, draft)
			case err != nil:
				return mutationResult{}, err
			}
			locked, err := s.repo.GetByIDForUpdate(ctx, db, existing.ID)
			if err != nil {
				return mutationResult{}, err
			}
			return s.updateLogic(ctx, db, *locked, draft)
		})
	})
	m, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, m)
	return &m.workout, nil
}

// DeleteFromSync removes the workout with the given external id. A workout
// that is already gone is not an error.
func (s *WorkoutService) DeleteFromSync(ctx context.Context, externalID int64) error {
	result, err := withTelemetry(s, ctx, "DeleteFromSync", strconv.FormatInt(externalID, 10), func(ctx context.Context) (mutationResult, error) {
		return runInTxWithRetry(s, ctx, func(ctx context.Context, db bun.IDB) (mutationResult, error) {
			existing, err := s.repo.GetByExternalID(ctx, db, externalID)
			if errors.Is(err, workoutdb.ErrNotFound) {
				return results.SuccessResult[*mutation, error](&mutation{}), nil
			}
			if err != nil {
				return mutationResult{}, err
			}
			locked, err := s.repo.GetByIDForUpdate(ctx, db, existing.ID)
			if err != nil {
				return mutationResult{}, err
			}
			return s.deleteLogic(ctx, db, *locked)
		})
	})
	m, err := unwrap(result, err)
	if err != nil {
		return err
	}
	s.publish(ctx, m)
	return nil
}
