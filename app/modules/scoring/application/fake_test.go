package scoringservice

import (
	"context"
	"sync"
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	scoringdb "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/repositories"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// callTrace records calls from concurrent goroutines.
type callTrace struct {
	mu    sync.Mutex
	trace []string
}

func (t *callTrace) record(step string) {
	t.mu.Lock()
	t.trace = append(t.trace, step)
	t.mu.Unlock()
}

func (t *callTrace) Trace() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.trace))
	copy(out, t.trace)
	return out
}

// ------------------------
// Fake Point Repo
// ------------------------

// FakePointRepo keeps an in-memory ledger. goalCompetition maps goal and
// award ids to their competition the way the SQL join does.
type FakePointRepo struct {
	callTrace

	mu              sync.Mutex
	rows            map[uuid.UUID][]scoringdb.Point
	goalCompetition map[uuid.UUID]uuid.UUID

	AcquireWorkoutLockFunc func(ctx context.Context, db bun.IDB, workoutID uuid.UUID) error
}

func NewFakePointRepo() *FakePointRepo {
	return &FakePointRepo{
		rows:            make(map[uuid.UUID][]scoringdb.Point),
		goalCompetition: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *FakePointRepo) Rows(workoutID uuid.UUID) []scoringdb.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]scoringdb.Point(nil), f.rows[workoutID]...)
}

func (f *FakePointRepo) AcquireWorkoutLock(ctx context.Context, db bun.IDB, workoutID uuid.UUID) error {
	f.record("AcquireWorkoutLock")
	if f.AcquireWorkoutLockFunc != nil {
		return f.AcquireWorkoutLockFunc(ctx, db, workoutID)
	}
	return nil
}

func (f *FakePointRepo) ListByWorkout(ctx context.Context, db bun.IDB, workoutID uuid.UUID) ([]scoringdb.LedgerPoint, error) {
	f.record("ListByWorkout")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []scoringdb.LedgerPoint
	for _, p := range f.rows[workoutID] {
		source := p.GoalID.UUID
		if p.AwardID.Valid {
			source = p.AwardID.UUID
		}
		out = append(out, scoringdb.LedgerPoint{Point: p, CompetitionID: f.goalCompetition[source]})
	}
	return out, nil
}

func (f *FakePointRepo) InsertPoints(ctx context.Context, db bun.IDB, points []scoringdb.Point) error {
	f.record("InsertPoints")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range points {
		f.rows[p.WorkoutID] = append(f.rows[p.WorkoutID], p)
	}
	return nil
}

func (f *FakePointRepo) UpdatePoint(ctx context.Context, db bun.IDB, point scoringdb.Point) error {
	f.record("UpdatePoint")
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rows[point.WorkoutID]
	for i := range rows {
		if rows[i].ID == point.ID {
			rows[i].PointsRaw = point.PointsRaw
			rows[i].PointsCapped = point.PointsCapped
			return nil
		}
	}
	return scoringdb.ErrNotFound
}

func (f *FakePointRepo) DeletePoints(ctx context.Context, db bun.IDB, ids []uuid.UUID) error {
	f.record("DeletePoints")
	f.mu.Lock()
	defer f.mu.Unlock()
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	for workoutID, rows := range f.rows {
		kept := rows[:0:0]
		for _, p := range rows {
			if !drop[p.ID] {
				kept = append(kept, p)
			}
		}
		f.rows[workoutID] = kept
	}
	return nil
}

func (f *FakePointRepo) DeleteByWorkout(ctx context.Context, db bun.IDB, workoutID uuid.UUID) (int, error) {
	f.record("DeleteByWorkout")
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.rows[workoutID])
	delete(f.rows, workoutID)
	return n, nil
}

func (f *FakePointRepo) UpsertAward(ctx context.Context, db bun.IDB, point scoringdb.Point) error {
	f.record("UpsertAward")
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rows[point.WorkoutID]
	for i := range rows {
		if rows[i].AwardID == point.AwardID {
			rows[i].PointsRaw = point.PointsRaw
			rows[i].PointsCapped = point.PointsCapped
			return nil
		}
	}
	f.rows[point.WorkoutID] = append(rows, point)
	return nil
}

var _ scoringdb.Repository = (*FakePointRepo)(nil)

// ------------------------
// Fake Competitions
// ------------------------

type FakeCompetitions struct {
	callTrace

	Active      []competitiondomain.CompetitionGoals
	Members     map[uuid.UUID][]uuid.UUID
	Awards      map[uuid.UUID]competitiondomain.Award
	Competition map[uuid.UUID]competitiondomain.Competition
}

func NewFakeCompetitions() *FakeCompetitions {
	return &FakeCompetitions{
		Members:     make(map[uuid.UUID][]uuid.UUID),
		Awards:      make(map[uuid.UUID]competitiondomain.Award),
		Competition: make(map[uuid.UUID]competitiondomain.Competition),
	}
}

func (f *FakeCompetitions) ListActiveGoalsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID, date time.Time) ([]competitiondomain.CompetitionGoals, error) {
	f.record("ListActiveGoalsForUser")
	var out []competitiondomain.CompetitionGoals
	for _, cg := range f.Active {
		if f.isMember(cg.Competition.ID, userID) && cg.Competition.ContainsDate(date) {
			out = append(out, cg)
		}
	}
	return out, nil
}

func (f *FakeCompetitions) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Competition, error) {
	f.record("GetCompetition")
	c, ok := f.Competition[id]
	if !ok {
		return nil, competitiondb.ErrNotFound
	}
	return &c, nil
}

func (f *FakeCompetitions) GetAward(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Award, error) {
	f.record("GetAward")
	a, ok := f.Awards[id]
	if !ok {
		return nil, competitiondb.ErrAwardNotFound
	}
	return &a, nil
}

func (f *FakeCompetitions) IsMember(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error) {
	f.record("IsMember")
	return f.isMember(competitionID, userID), nil
}

func (f *FakeCompetitions) ListMemberIDs(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]uuid.UUID, error) {
	f.record("ListMemberIDs")
	return f.Members[competitionID], nil
}

func (f *FakeCompetitions) isMember(competitionID, userID uuid.UUID) bool {
	for _, id := range f.Members[competitionID] {
		if id == userID {
			return true
		}
	}
	return false
}

var _ CompetitionLookup = (*FakeCompetitions)(nil)

// ------------------------
// Fake Workouts
// ------------------------

type FakeWorkouts struct {
	callTrace

	mu       sync.Mutex
	Workouts map[uuid.UUID]workoutdomain.Workout

	ListIDsForUsersBetweenFunc func(ctx context.Context, db bun.IDB, userIDs []uuid.UUID, from, to time.Time) ([]uuid.UUID, error)
}

func NewFakeWorkouts(ws ...workoutdomain.Workout) *FakeWorkouts {
	f := &FakeWorkouts{Workouts: make(map[uuid.UUID]workoutdomain.Workout)}
	for _, w := range ws {
		f.Workouts[w.ID] = w
	}
	return f
}

func (f *FakeWorkouts) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error) {
	f.record("GetByID")
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.Workouts[id]
	if !ok {
		return nil, workoutdb.ErrNotFound
	}
	return &w, nil
}

func (f *FakeWorkouts) ListIDsForUsersBetween(ctx context.Context, db bun.IDB, userIDs []uuid.UUID, from, to time.Time) ([]uuid.UUID, error) {
	f.record("ListIDsForUsersBetween")
	if f.ListIDsForUsersBetweenFunc != nil {
		return f.ListIDsForUsersBetweenFunc(ctx, db, userIDs, from, to)
	}
	return nil, nil
}

var _ WorkoutLookup = (*FakeWorkouts)(nil)

// ------------------------
// Publisher and transaction stand-ins
// ------------------------

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for range msgs {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

// callerTx stands in for a transaction owned by the caller. The fakes never
// touch it.
type callerTx struct {
	bun.IDB
}
