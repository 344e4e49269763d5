package scoringservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	competitionservice "github.com/Black-And-White-Club/fitcomp/app/modules/competition/application"
	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	scoringdomain "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/domain"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	scoringevents "github.com/Black-And-White-Club/fitcomp/pkg/events/scoring"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type env struct {
	svc          *ScoringService
	points       *FakePointRepo
	competitions *FakeCompetitions
	workouts     *FakeWorkouts
	pub          *recordingPublisher

	owner  uuid.UUID
	user   uuid.UUID
	comp   competitiondomain.Competition
	runKm  competitiondomain.Goal
	swimKm competitiondomain.Goal
	award  competitiondomain.Award
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		points:       NewFakePointRepo(),
		competitions: NewFakeCompetitions(),
		workouts:     NewFakeWorkouts(),
		pub:          &recordingPublisher{},
		owner:        uuid.New(),
		user:         uuid.New(),
	}
	e.comp = competitiondomain.Competition{
		ID:        uuid.New(),
		OwnerID:   e.owner,
		Name:      "Spring",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	e.runKm = competitiondomain.Goal{
		ID:            uuid.New(),
		CompetitionID: e.comp.ID,
		Name:          "Run km",
		SportGroup:    workoutdomain.GroupRunning,
		Metric:        competitiondomain.MetricDistanceKm,
		PointsPerUnit: decimal.NewFromInt(10),
		Cap:           decimal.NewNullDecimal(decimal.NewFromInt(50)),
	}
	e.swimKm = competitiondomain.Goal{
		ID:            uuid.New(),
		CompetitionID: e.comp.ID,
		Name:          "Swim km",
		SportTypes:    []workoutdomain.SportType{workoutdomain.SportSwim},
		Metric:        competitiondomain.MetricDistanceKm,
		PointsPerUnit: decimal.NewFromInt(40),
	}
	e.award = competitiondomain.Award{ID: uuid.New(), CompetitionID: e.comp.ID, Name: "Early bird"}

	e.competitions.Active = []competitiondomain.CompetitionGoals{{
		Competition: e.comp,
		Goals:       []competitiondomain.Goal{e.runKm, e.swimKm},
	}}
	e.competitions.Members[e.comp.ID] = []uuid.UUID{e.owner, e.user}
	e.competitions.Competition[e.comp.ID] = e.comp
	e.competitions.Awards[e.award.ID] = e.award
	e.points.goalCompetition[e.runKm.ID] = e.comp.ID
	e.points.goalCompetition[e.swimKm.ID] = e.comp.ID
	e.points.goalCompetition[e.award.ID] = e.comp.ID

	e.svc = NewScoringService(e.points, e.competitions, e.workouts, e.pub, slog.Default(), metrics.NewNoop(), nil, nil, Options{Concurrency: 2})
	return e
}

func (e *env) run(km int64) workoutdomain.Workout {
	return workoutdomain.Workout{
		ID:         uuid.New(),
		UserID:     e.user,
		SportType:  workoutdomain.SportRun,
		StartedAt:  time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC),
		Duration:   40 * time.Minute,
		Intensity:  workoutdomain.IntensityModerate,
		Kcal:       decimal.NewFromInt(400),
		DistanceKm: decimal.NewNullDecimal(decimal.NewFromInt(km)),
	}
}

func scopedTopic(competitionID uuid.UUID) string {
	return eventbus.FormatCompetitionScopedTopic(scoringevents.PointsReconciledScopedV1, competitionID)
}

func TestOnWorkoutCreated(t *testing.T) {
	e := newEnv(t)
	w := e.run(7)

	require.NoError(t, e.svc.OnWorkoutCreated(context.Background(), nil, w))

	rows := e.points.Rows(w.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, e.runKm.ID, rows[0].GoalID.UUID)
	assert.True(t, rows[0].PointsRaw.Equal(decimal.NewFromInt(70)))
	assert.True(t, rows[0].PointsCapped.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, []string{scoringevents.PointsReconciledV1, scopedTopic(e.comp.ID)}, e.pub.Topics())

	t.Run("second run is a no-op", func(t *testing.T) {
		require.NoError(t, e.svc.OnWorkoutCreated(context.Background(), nil, w))
		assert.Len(t, e.points.Rows(w.ID), 1)
		assert.Len(t, e.pub.Topics(), 2, "nothing changed, nothing published")
	})
}

func TestOnWorkoutCreatedOutsideCompetition(t *testing.T) {
	e := newEnv(t)
	w := e.run(5)
	w.StartedAt = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, e.svc.OnWorkoutCreated(context.Background(), nil, w))
	assert.Empty(t, e.points.Rows(w.ID))
	assert.Empty(t, e.pub.Topics())
}

func TestOnWorkoutUpdated(t *testing.T) {
	t.Run("sport change moves points to the new goal", func(t *testing.T) {
		e := newEnv(t)
		w := e.run(2)
		require.NoError(t, e.svc.OnWorkoutCreated(context.Background(), nil, w))
		runRow := e.points.Rows(w.ID)[0]

		swim := w
		swim.SportType = workoutdomain.SportSwim
		require.NoError(t, e.svc.OnWorkoutUpdated(context.Background(), nil, swim, workoutdomain.Diff(w, swim)))

		rows := e.points.Rows(w.ID)
		require.Len(t, rows, 1)
		assert.NotEqual(t, runRow.ID, rows[0].ID)
		assert.Equal(t, e.swimKm.ID, rows[0].GoalID.UUID)
		assert.True(t, rows[0].PointsCapped.Equal(decimal.NewFromInt(80)))
	})

	t.Run("distance change updates in place", func(t *testing.T) {
		e := newEnv(t)
		w := e.run(2)
		require.NoError(t, e.svc.OnWorkoutCreated(context.Background(), nil, w))
		before := e.points.Rows(w.ID)[0]

		longer := w
		longer.DistanceKm = decimal.NewNullDecimal(decimal.NewFromInt(3))
		require.NoError(t, e.svc.OnWorkoutUpdated(context.Background(), nil, longer, workoutdomain.Diff(w, longer)))

		rows := e.points.Rows(w.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, before.ID, rows[0].ID)
		assert.True(t, rows[0].PointsRaw.Equal(decimal.NewFromInt(30)))
		assert.Contains(t, e.points.Trace(), "UpdatePoint")
	})

	t.Run("bookkeeping change is skipped", func(t *testing.T) {
		e := newEnv(t)
		w := e.run(2)
		watts := w
		watts.ExternalAvgWatts = decimal.NewNullDecimal(decimal.NewFromInt(210))

		require.NoError(t, e.svc.OnWorkoutUpdated(context.Background(), nil, watts, workoutdomain.Diff(w, watts)))
		assert.Empty(t, e.points.Trace())
		assert.Empty(t, e.competitions.Trace())
	})
}

func TestOnWorkoutDeletedRemovesAwardsToo(t *testing.T) {
	e := newEnv(t)
	w := e.run(3)
	e.workouts.Workouts[w.ID] = w
	require.NoError(t, e.svc.OnWorkoutCreated(context.Background(), nil, w))
	require.NoError(t, e.svc.GrantAward(context.Background(), e.owner, e.award.ID, w.ID, decimal.NewFromInt(5)))
	require.Len(t, e.points.Rows(w.ID), 2)

	before := len(e.pub.Topics())
	require.NoError(t, e.svc.OnWorkoutDeleted(context.Background(), nil, w))

	assert.Empty(t, e.points.Rows(w.ID))
	assert.Equal(t, []string{scoringevents.PointsReconciledV1, scopedTopic(e.comp.ID)}, e.pub.Topics()[before:])
}

func TestTriggerInCallerTransaction(t *testing.T) {
	e := newEnv(t)
	w := e.run(3)
	tx := callerTx{}

	require.NoError(t, e.svc.OnWorkoutCreated(context.Background(), tx, w))
	assert.Len(t, e.points.Rows(w.ID), 1)
	assert.Empty(t, e.pub.Topics(), "the caller publishes after its own commit")

	t.Run("conflicts are classified but not retried", func(t *testing.T) {
		calls := 0
		e.points.AcquireWorkoutLockFunc = func(ctx context.Context, db bun.IDB, workoutID uuid.UUID) error {
			calls++
			return &pgconn.PgError{Code: "40P01"}
		}
		err := e.svc.OnWorkoutDeleted(context.Background(), tx, w)
		assert.ErrorIs(t, err, ErrConcurrentModification)
		assert.Equal(t, 1, calls)
	})
}

func TestRetryOnConcurrentModification(t *testing.T) {
	t.Run("first conflict is retried", func(t *testing.T) {
		e := newEnv(t)
		calls := 0
		e.points.AcquireWorkoutLockFunc = func(ctx context.Context, db bun.IDB, workoutID uuid.UUID) error {
			calls++
			if calls == 1 {
				return &pgconn.PgError{Code: "40001"}
			}
			return nil
		}
		w := e.run(3)
		require.NoError(t, e.svc.OnWorkoutCreated(context.Background(), nil, w))
		assert.Equal(t, 2, calls)
		assert.Len(t, e.points.Rows(w.ID), 1)
	})

	t.Run("second conflict surfaces", func(t *testing.T) {
		e := newEnv(t)
		calls := 0
		e.points.AcquireWorkoutLockFunc = func(ctx context.Context, db bun.IDB, workoutID uuid.UUID) error {
			calls++
			return &pgconn.PgError{Code: "40001"}
		}
		err := e.svc.OnWorkoutCreated(context.Background(), nil, e.run(3))
		assert.ErrorIs(t, err, ErrConcurrentModification)
		assert.Equal(t, 2, calls)
		assert.Empty(t, e.pub.Topics())
	})
}

func TestInvalidGoalAbortsReconciliation(t *testing.T) {
	e := newEnv(t)
	broken := e.runKm
	broken.Metric = "steps"
	e.competitions.Active[0].Goals = []competitiondomain.Goal{broken}

	w := e.run(3)
	err := e.svc.OnWorkoutCreated(context.Background(), nil, w)
	assert.ErrorIs(t, err, scoringdomain.ErrInvalidGoalConfiguration)
	assert.Empty(t, e.points.Rows(w.ID))
	assert.NotContains(t, e.points.Trace(), "InsertPoints")
}

func TestGrantAward(t *testing.T) {
	tests := []struct {
		name    string
		actor   func(e *env) uuid.UUID
		workout func(e *env) workoutdomain.Workout
		wantErr error
	}{
		{
			name:    "owner grants",
			actor:   func(e *env) uuid.UUID { return e.owner },
			workout: func(e *env) workoutdomain.Workout { return e.run(1) },
		},
		{
			name:    "non-owner is denied",
			actor:   func(e *env) uuid.UUID { return e.user },
			workout: func(e *env) workoutdomain.Workout { return e.run(1) },
			wantErr: competitionservice.ErrPermissionDenied,
		},
		{
			name:  "workout outside the dates",
			actor: func(e *env) uuid.UUID { return e.owner },
			workout: func(e *env) workoutdomain.Workout {
				w := e.run(1)
				w.StartedAt = time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
				return w
			},
			wantErr: ErrWorkoutOutsideCompetition,
		},
		{
			name:  "workout of a stranger",
			actor: func(e *env) uuid.UUID { return e.owner },
			workout: func(e *env) workoutdomain.Workout {
				w := e.run(1)
				w.UserID = uuid.New()
				return w
			},
			wantErr: ErrWorkoutOutsideCompetition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			w := tt.workout(e)
			e.workouts.Workouts[w.ID] = w

			err := e.svc.GrantAward(context.Background(), tt.actor(e), e.award.ID, w.ID, decimal.RequireFromString("12.345"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, e.points.Rows(w.ID))
				return
			}
			require.NoError(t, err)
			rows := e.points.Rows(w.ID)
			require.Len(t, rows, 1)
			assert.Equal(t, e.award.ID, rows[0].AwardID.UUID)
			assert.True(t, rows[0].PointsCapped.Equal(decimal.RequireFromString("12.35")))

			// Regranting replaces the amount.
			require.NoError(t, e.svc.GrantAward(context.Background(), e.owner, e.award.ID, w.ID, decimal.NewFromInt(3)))
			rows = e.points.Rows(w.ID)
			require.Len(t, rows, 1)
			assert.True(t, rows[0].PointsRaw.Equal(decimal.NewFromInt(3)))

			// Re-matching goals leaves the award alone.
			require.NoError(t, e.svc.RecomputeWorkout(context.Background(), w.ID))
			assert.Len(t, e.points.Rows(w.ID), 2)
		})
	}
}

func TestRecomputeCompetition(t *testing.T) {
	e := newEnv(t)
	a, b := e.run(1), e.run(4)
	e.workouts.Workouts[a.ID] = a
	e.workouts.Workouts[b.ID] = b
	missing := uuid.New()

	var gotUsers []uuid.UUID
	var gotFrom, gotTo time.Time
	e.workouts.ListIDsForUsersBetweenFunc = func(ctx context.Context, db bun.IDB, userIDs []uuid.UUID, from, to time.Time) ([]uuid.UUID, error) {
		gotUsers, gotFrom, gotTo = userIDs, from, to
		return []uuid.UUID{a.ID, b.ID, missing}, nil
	}

	n, err := e.svc.RecomputeCompetition(context.Background(), e.comp.ID, []uuid.UUID{e.user, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []uuid.UUID{e.user}, gotUsers, "filter is intersected with the membership")
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), gotFrom)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), gotTo)
	assert.Len(t, e.points.Rows(a.ID), 1)
	assert.Len(t, e.points.Rows(b.ID), 1)
	assert.Empty(t, e.points.Rows(missing))
}

func TestRecomputeCompetitionNotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.RecomputeCompetition(context.Background(), uuid.New(), nil)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrConcurrentModification))
}
