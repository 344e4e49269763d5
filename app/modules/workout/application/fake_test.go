package workoutservice

import (
	"context"
	"time"

	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Workout Repo
// ------------------------

type FakeWorkoutRepo struct {
	trace []string

	GetByIDFunc                func(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error)
	GetByIDForUpdateFunc       func(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error)
	GetByExternalIDFunc        func(ctx context.Context, db bun.IDB, externalID int64) (*workoutdomain.Workout, error)
	InsertFunc                 func(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error
	UpdateFunc                 func(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error
	DeleteFunc                 func(ctx context.Context, db bun.IDB, id uuid.UUID) error
	ListByUserFunc             func(ctx context.Context, db bun.IDB, userID uuid.UUID, limit int) ([]workoutdomain.Workout, error)
	ListIDsForUsersBetweenFunc func(ctx context.Context, db bun.IDB, userIDs []uuid.UUID, from, to time.Time) ([]uuid.UUID, error)
}

func NewFakeWorkoutRepo() *FakeWorkoutRepo {
	return &FakeWorkoutRepo{trace: []string{}}
}

func (f *FakeWorkoutRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeWorkoutRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeWorkoutRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, workoutdb.ErrNotFound
}

func (f *FakeWorkoutRepo) GetByIDForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error) {
	f.record("GetByIDForUpdate")
	if f.GetByIDForUpdateFunc != nil {
		return f.GetByIDForUpdateFunc(ctx, db, id)
	}
	return nil, workoutdb.ErrNotFound
}

func (f *FakeWorkoutRepo) GetByExternalID(ctx context.Context, db bun.IDB, externalID int64) (*workoutdomain.Workout, error) {
	f.record("GetByExternalID")
	if f.GetByExternalIDFunc != nil {
		return f.GetByExternalIDFunc(ctx, db, externalID)
	}
	return nil, workoutdb.ErrNotFound
}

func (f *FakeWorkoutRepo) Insert(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, w)
	}
	return nil
}

func (f *FakeWorkoutRepo) Update(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, w)
	}
	return nil
}

func (f *FakeWorkoutRepo) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeWorkoutRepo) ListByUser(ctx context.Context, db bun.IDB, userID uuid.UUID, limit int) ([]workoutdomain.Workout, error) {
	f.record("ListByUser")
	if f.ListByUserFunc != nil {
		return f.ListByUserFunc(ctx, db, userID, limit)
	}
	return nil, nil
}

func (f *FakeWorkoutRepo) ListIDsForUsersBetween(ctx context.Context, db bun.IDB, userIDs []uuid.UUID, from, to time.Time) ([]uuid.UUID, error) {
	f.record("ListIDsForUsersBetween")
	if f.ListIDsForUsersBetweenFunc != nil {
		return f.ListIDsForUsersBetweenFunc(ctx, db, userIDs, from, to)
	}
	return nil, nil
}

var _ workoutdb.Repository = (*FakeWorkoutRepo)(nil)

// ------------------------
// Fake Users
// ------------------------

type FakeUsers struct {
	GetByIDFunc func(ctx context.Context, db bun.IDB, id uuid.UUID) (*userdb.User, error)
}

func (f *FakeUsers) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*userdb.User, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, userdb.ErrNotFound
}

// ------------------------
// Fake Scoring Trigger
// ------------------------

type FakeTrigger struct {
	trace []string

	OnWorkoutCreatedFunc func(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error
	OnWorkoutUpdatedFunc func(ctx context.Context, db bun.IDB, w workoutdomain.Workout, change workoutdomain.Change) error
	OnWorkoutDeletedFunc func(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error
}

func (f *FakeTrigger) OnWorkoutCreated(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error {
	f.trace = append(f.trace, "OnWorkoutCreated")
	if f.OnWorkoutCreatedFunc != nil {
		return f.OnWorkoutCreatedFunc(ctx, db, w)
	}
	return nil
}

func (f *FakeTrigger) OnWorkoutUpdated(ctx context.Context, db bun.IDB, w workoutdomain.Workout, change workoutdomain.Change) error {
	f.trace = append(f.trace, "OnWorkoutUpdated")
	if f.OnWorkoutUpdatedFunc != nil {
		return f.OnWorkoutUpdatedFunc(ctx, db, w, change)
	}
	return nil
}

func (f *FakeTrigger) OnWorkoutDeleted(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error {
	f.trace = append(f.trace, "OnWorkoutDeleted")
	if f.OnWorkoutDeletedFunc != nil {
		return f.OnWorkoutDeletedFunc(ctx, db, w)
	}
	return nil
}

func (f *FakeTrigger) Trace() []string {
	return append([]string(nil), f.trace...)
}

var _ ScoringTrigger = (*FakeTrigger)(nil)

// ------------------------
// Recording Publisher
// ------------------------

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	for range msgs {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
