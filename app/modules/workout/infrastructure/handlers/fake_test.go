package workouthandlers

import (
	"context"

	workoutservice "github.com/Black-And-White-Club/fitcomp/app/modules/workout/application"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
	"github.com/google/uuid"
)

type FakeWorkoutService struct {
	UpsertFromSyncFunc func(ctx context.Context, payload workoutevents.WorkoutSyncUpsertedPayloadV1) (*workoutdomain.Workout, error)
	DeleteFromSyncFunc func(ctx context.Context, externalID int64) error
}

func (f *FakeWorkoutService) CreateWorkout(ctx context.Context, draft workoutdomain.Draft) (*workoutdomain.Workout, error) {
	return nil, nil
}

func (f *FakeWorkoutService) UpdateWorkout(ctx context.Context, actorID, workoutID uuid.UUID, draft workoutdomain.Draft) (*workoutdomain.Workout, error) {
	return nil, nil
}

func (f *FakeWorkoutService) DeleteWorkout(ctx context.Context, actorID, workoutID uuid.UUID) error {
	return nil
}

func (f *FakeWorkoutService) GetWorkout(ctx context.Context, workoutID uuid.UUID) (*workoutdomain.Workout, error) {
	return nil, nil
}

func (f *FakeWorkoutService) ListUserWorkouts(ctx context.Context, userID uuid.UUID, limit int) ([]workoutdomain.Workout, error) {
	return nil, nil
}

func (f *FakeWorkoutService) UpsertFromSync(ctx context.Context, payload workoutevents.WorkoutSyncUpsertedPayloadV1) (*workoutdomain.Workout, error) {
	if f.UpsertFromSyncFunc != nil {
		return f.UpsertFromSyncFunc(ctx, payload)
	}
	return &workoutdomain.Workout{ID: uuid.New()}, nil
}

func (f *FakeWorkoutService) DeleteFromSync(ctx context.Context, externalID int64) error {
	if f.DeleteFromSyncFunc != nil {
		return f.DeleteFromSyncFunc(ctx, externalID)
	}
	return nil
}

var _ workoutservice.Service = (*FakeWorkoutService)(nil)
