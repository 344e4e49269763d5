package workoutservice

import (
	"context"
	"errors"
	"fmt"

	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type mutationResult = results.OperationResult[*mutation, error]

// CreateWorkout stores a new workout and awards its points in the same transaction.
func (s *WorkoutService) CreateWorkout(ctx context.Context, draft workoutdomain.Draft) (*workoutdomain.Workout, error) {
	result, err := withTelemetry(s, ctx, "CreateWorkout", draft.UserID.String(), func(ctx context.Context) (mutationResult, error) {
		if err := draft.Validate(); err != nil {
			return results.FailureResult[*mutation, error](err), nil
		}
		id := uuid.New()
		return runInTxWithRetry(s, ctx, func(ctx context.Context, db bun.IDB) (mutationResult, error) {
			return s.createLogic(ctx, db, id, draft)
		})
	})
	m, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, m)
	return &m.workout, nil
}

func (s *WorkoutService) createLogic(ctx context.Context, db bun.IDB, id uuid.UUID, draft workoutdomain.Draft) (mutationResult, error) {
	user, err := s.users.GetByID(ctx, db, draft.UserID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return results.FailureResult[*mutation, error](err), nil
		}
		return mutationResult{}, fmt.Errorf("failed to load workout owner: %w", err)
	}

	w, err := draft.Build(id, user.ScalingKcal)
	if err != nil {
		return results.FailureResult[*mutation, error](err), nil
	}
	if err := s.repo.Insert(ctx, db, w); err != nil {
		return mutationResult{}, err
	}
	if err := s.trigger.OnWorkoutCreated(ctx, db, w); err != nil {
		return mutationResult{}, fmt.Errorf("failed to score workout: %w", err)
	}
	return results.SuccessResult[*mutation, error](&mutation{
		workout: w,
		topic:   workoutevents.WorkoutCreatedV1,
	}), nil
}

// UpdateWorkout replaces a workout with draft and reconciles its points.
// A zero UserID in draft keeps the current owner.
func (s *WorkoutService) UpdateWorkout(ctx context.Context, actorID, workoutID uuid.UUID, draft workoutdomain.Draft) (*workoutdomain.Workout, error) {
	result, err := withTelemetry(s, ctx, "UpdateWorkout", workoutID.String(), func(ctx context.Context) (mutationResult, error) {
		return runInTxWithRetry(s, ctx, func(ctx context.Context, db bun.IDB) (mutationResult, error) {
			existing, err := s.repo.GetByIDForUpdate(ctx, db, workoutID)
			if err != nil {
				if errors.Is(err, workoutdb.ErrNotFound) {
					return results.FailureResult[*mutation, error](err), nil
				}
				return mutationResult{}, err
			}
			if existing.UserID != actorID {
				return results.FailureResult[*mutation, error](ErrNotOwner), nil
			}
			return s.updateLogic(ctx, db, *existing, draft)
		})
	})
	m, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, m)
	return &m.workout, nil
}

func (s *WorkoutService) updateLogic(ctx context.Context, db bun.IDB, existing workoutdomain.Workout, draft workoutdomain.Draft) (mutationResult, error) {
	if draft.UserID == uuid.Nil {
		draft.UserID = existing.UserID
	}
	if draft.ExternalID == nil {
		draft.ExternalID = existing.ExternalID
	}
	if err := draft.Validate(); err != nil {
		return results.FailureResult[*mutation, error](err), nil
	}

	user, err := s.users.GetByID(ctx, db, draft.UserID)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return results.FailureResult[*mutation, error](err), nil
		}
		return mutationResult{}, fmt.Errorf("failed to load workout owner: %w", err)
	}

	updated, err := draft.Build(existing.ID, user.ScalingKcal)
	if err != nil {
		return results.FailureResult[*mutation, error](err), nil
	}

	change := workoutdomain.Diff(existing, updated)
	if change.IsEmpty() {
		return results.SuccessResult[*mutation, error](&mutation{workout: existing}), nil
	}
	if err := s.repo.Update(ctx, db, updated); err != nil {
		return mutationResult{}, err
	}
	if err := s.trigger.OnWorkoutUpdated(ctx, db, updated, change); err != nil {
		return mutationResult{}, fmt.Errorf("failed to rescore workout: %w", err)
	}
	return results.SuccessResult[*mutation, error](&mutation{
		workout: updated,
		topic:   workoutevents.WorkoutUpdatedV1,
		changed: change.Fields(),
	}), nil
}

// DeleteWorkout removes a workout together with every point derived from it.
func (s *WorkoutService) DeleteWorkout(ctx context.Context, actorID, workoutID uuid.UUID) error {
	result, err := withTelemetry(s, ctx, "DeleteWorkout", workoutID.String(), func(ctx context.Context) (mutationResult, error) {
		return runInTxWithRetry(s, ctx, func(ctx context.Context, db bun.IDB) (mutationResult, error) {
			existing, err := s.repo.GetByIDForUpdate(ctx, db, workoutID)
			if err != nil {
				if errors.Is(err, workoutdb.ErrNotFound) {
					return results.FailureResult[*mutation, error](err), nil
				}
				return mutationResult{}, err
			}
			if existing.UserID != actorID {
				return results.FailureResult[*mutation, error](ErrNotOwner), nil
			}
			return s.deleteLogic(ctx, db, *existing)
		})
	})
	m, err := unwrap(result, err)
	if err != nil {
		return err
	}
	s.publish(ctx, m)
	return nil
}

func (s *WorkoutService) deleteLogic(ctx context.Context, db bun.IDB, w workoutdomain.Workout) (mutationResult, error) {
	if err := s.trigger.OnWorkoutDeleted(ctx, db, w); err != nil {
		return mutationResult{}, fmt.Errorf("failed to remove workout points: %w", err)
	}
	if err := s.repo.Delete(ctx, db, w.ID); err != nil {
		return mutationResult{}, err
	}
	return results.SuccessResult[*mutation, error](&mutation{
		workout: w,
		topic:   workoutevents.WorkoutDeletedV1,
	}), nil
}

// GetWorkout retrieves a workout by id.
func (s *WorkoutService) GetWorkout(ctx context.Context, workoutID uuid.UUID) (*workoutdomain.Workout, error) {
	w, err := s.repo.GetByID(ctx, nil, workoutID)
	if err != nil {
		return nil, fmt.Errorf("GetWorkout: %w", err)
	}
	return w, nil
}

// ListUserWorkouts returns the newest workouts of a user. limit <= 0 means all.
func (s *WorkoutService) ListUserWorkouts(ctx context.Context, userID uuid.UUID, limit int) ([]workoutdomain.Workout, error) {
	ws, err := s.repo.ListByUser(ctx, nil, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListUserWorkouts: %w", err)
	}
	return ws, nil
}
