package leaderboardservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/clock"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type env struct {
	svc   *LeaderboardService
	repo  *FakeLeaderboardRepo
	comps *FakeCompetitions
	clock *clock.Manual

	ana, ben, cid, dov uuid.UUID
	red, blue, empty   uuid.UUID
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// newEnv builds a competition of four members. ana and ben form the red
// team, cid is alone in blue, dov has no team and no points.
func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		ana: uuid.New(), ben: uuid.New(), cid: uuid.New(), dov: uuid.New(),
		red: uuid.New(), blue: uuid.New(), empty: uuid.New(),
		clock: clock.NewManual(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
	}
	athlete := int64(4242)
	comp := &competitiondomain.Competition{
		ID:        uuid.New(),
		OwnerID:   e.ana,
		Name:      "March Madness",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		HasTeams:  true,
	}
	e.comps = &FakeCompetitions{
		Competition: comp,
		Members:     []uuid.UUID{e.ana, e.ben, e.cid, e.dov},
		Teams: []competitiondomain.Team{
			{ID: e.blue, CompetitionID: comp.ID, Name: "Blue"},
			{ID: e.empty, CompetitionID: comp.ID, Name: "Empty"},
			{ID: e.red, CompetitionID: comp.ID, Name: "Red"},
		},
		Memberships: []competitiondb.TeamMembership{
			{TeamID: e.red, UserID: e.ana},
			{TeamID: e.red, UserID: e.ben},
			{TeamID: e.blue, UserID: e.cid},
		},
		Goals: []competitiondomain.Goal{{ID: uuid.New(), CompetitionID: comp.ID, Name: "Run", Metric: competitiondomain.MetricDistanceKm, PointsPerUnit: dec("10")}},
	}
	users := &FakeUsers{Users: []userdb.User{
		{ID: e.ana, Username: "ana", StravaAllowFollow: true, StravaAthleteID: &athlete},
		{ID: e.ben, Username: "ben", StravaAthleteID: &athlete},
		{ID: e.cid, Username: "cid"},
		{ID: e.dov, Username: "dov"},
	}}
	day := func(d int) time.Time { return time.Date(2026, 3, d, 8, 0, 0, 0, time.UTC) }
	e.repo = &FakeLeaderboardRepo{Facts: []leaderboarddomain.Fact{
		{WorkoutID: uuid.New(), UserID: e.ana, StartedAt: day(7), Capped: dec("100")},
		{WorkoutID: uuid.New(), UserID: e.ben, StartedAt: day(7), Capped: dec("50")},
		{WorkoutID: uuid.New(), UserID: e.cid, StartedAt: day(9), Capped: dec("75")},
		{WorkoutID: uuid.New(), UserID: e.ben, StartedAt: day(10), Capped: dec("75")},
	}}
	e.svc = NewLeaderboardService(e.repo, e.comps, users, slog.Default(), metrics.NewNoop(), nil, Options{
		Clock:    e.clock,
		CacheTTL: 30 * time.Second,
	})
	return e
}

func (e *env) competitionID() uuid.UUID { return e.comps.Competition.ID }

func TestGetCompetitionStats(t *testing.T) {
	e := newEnv(t)

	stats, err := e.svc.GetCompetitionStats(context.Background(), e.competitionID())
	require.NoError(t, err)

	t.Run("individual leaderboard", func(t *testing.T) {
		ind := stats.Leaderboard.Individual
		require.Len(t, ind, 4)
		assert.Equal(t, "ben", ind[0].Username)
		assert.Equal(t, 1, *ind[0].Rank)
		assert.True(t, ind[0].Points.Equal(dec("125")))
		assert.Nil(t, ind[0].StravaAthleteID, "ben does not allow following")

		assert.Equal(t, "ana", ind[1].Username)
		assert.Equal(t, 2, *ind[1].Rank)
		require.NotNil(t, ind[1].StravaAthleteID)

		assert.Equal(t, "cid", ind[2].Username)
		assert.Equal(t, 3, *ind[2].Rank)

		assert.Equal(t, "dov", ind[3].Username)
		assert.Nil(t, ind[3].Rank)
		assert.Nil(t, ind[3].Points)
	})

	t.Run("team leaderboard is equalized", func(t *testing.T) {
		teams := stats.Leaderboard.Team
		require.Len(t, teams, 3)
		// red: 225 over 2 members, blue: 75 over 1.
		assert.Equal(t, "Red", teams[0].Name)
		assert.True(t, teams[0].Points.Equal(dec("112.5")))
		assert.Equal(t, 1, *teams[0].Rank)
		assert.Len(t, teams[0].Members, 2)
		assert.Equal(t, "Blue", teams[1].Name)
		assert.Equal(t, 2, *teams[1].Rank)
		assert.Equal(t, "Empty", teams[2].Name)
		assert.Nil(t, teams[2].Rank)
		assert.NotNil(t, teams[2].Members)
		assert.Equal(t, 0, stats.Teams[e.empty].MemberCount)
	})

	t.Run("timeseries", func(t *testing.T) {
		require.Len(t, stats.Timeseries.All, 3)
		assert.Equal(t, 3, stats.Timeseries.All[0].DaysAgo)
		assert.True(t, stats.Timeseries.All[0].Total.Equal(dec("150")))
		assert.Equal(t, 0, stats.Timeseries.All[2].DaysAgo)
		assert.Len(t, stats.Timeseries.Team[e.red], 2)
		assert.NotContains(t, stats.Timeseries.User, e.dov)
	})

	t.Run("summary", func(t *testing.T) {
		c := stats.Competition
		assert.Equal(t, "March Madness", c.Name)
		assert.Equal(t, 4, c.MemberCount)
		assert.Equal(t, "2026-03-01", c.StartDate)
		assert.Equal(t, 9, c.StartDateCount)
		assert.Equal(t, -21, c.EndDateCount)
		require.Len(t, c.Goals, 1)
		assert.Equal(t, "distance_km", c.Goals[0].Metric)
	})
}

func TestGetCompetitionStatsNotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.GetCompetitionStats(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCompetitionNotFound)
}

func TestGetCompetitionStatsRepositoryError(t *testing.T) {
	e := newEnv(t)
	boom := errors.New("connection reset")
	e.repo.ListPointFactsFunc = func(ctx context.Context, competitionID uuid.UUID) ([]leaderboarddomain.Fact, error) {
		return nil, boom
	}
	_, err := e.svc.GetCompetitionStats(context.Background(), e.competitionID())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCompetitionNotFound)
}

func TestStatsCache(t *testing.T) {
	ctx := context.Background()

	t.Run("served until ttl expires", func(t *testing.T) {
		e := newEnv(t)
		first, err := e.svc.GetCompetitionStats(ctx, e.competitionID())
		require.NoError(t, err)
		second, err := e.svc.GetCompetitionStats(ctx, e.competitionID())
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, e.repo.Reads())

		e.clock.Advance(31 * time.Second)
		_, err = e.svc.GetCompetitionStats(ctx, e.competitionID())
		require.NoError(t, err)
		assert.Equal(t, 2, e.repo.Reads())
	})

	t.Run("callers own their copy", func(t *testing.T) {
		e := newEnv(t)
		computed, err := e.svc.GetCompetitionStats(ctx, e.competitionID())
		require.NoError(t, err)
		want, err := e.svc.GetCompetitionStats(ctx, e.competitionID())
		require.NoError(t, err)
		require.Len(t, want.Leaderboard.Individual, 4)

		for _, s := range []*CompetitionStats{computed, want} {
			s.Leaderboard.Individual[0], s.Leaderboard.Individual[3] = s.Leaderboard.Individual[3], s.Leaderboard.Individual[0]
			s.Leaderboard.Individual = append(s.Leaderboard.Individual, IndividualEntry{Username: "intruder"})
			s.Leaderboard.Team[0].Members = append(s.Leaderboard.Team[0].Members[:0], MemberRef{Username: "intruder"})
			s.Timeseries.All[0].Total = dec("-1")
			s.Competition.Members[0] = uuid.Nil
			delete(s.Teams, e.red)
		}

		got, err := e.svc.GetCompetitionStats(ctx, e.competitionID())
		require.NoError(t, err)
		assert.Equal(t, 1, e.repo.Reads())
		assert.NotSame(t, want, got)
		require.Len(t, got.Leaderboard.Individual, 4)
		assert.Equal(t, "ben", got.Leaderboard.Individual[0].Username)
		assert.NotEqual(t, "intruder", got.Leaderboard.Team[0].Members[0].Username)
		assert.False(t, got.Timeseries.All[0].Total.IsNegative())
		assert.NotContains(t, got.Competition.Members, uuid.Nil)
		assert.Contains(t, got.Teams, e.red)
	})

	t.Run("invalidated by competition", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.svc.GetCompetitionStats(ctx, e.competitionID())
		require.NoError(t, err)
		e.svc.InvalidateCompetitions(uuid.New())
		_, _ = e.svc.GetCompetitionStats(ctx, e.competitionID())
		assert.Equal(t, 1, e.repo.Reads(), "other competitions do not evict")

		e.svc.InvalidateCompetitions(e.competitionID())
		_, _ = e.svc.GetCompetitionStats(ctx, e.competitionID())
		assert.Equal(t, 2, e.repo.Reads())
	})

	t.Run("invalidated by user", func(t *testing.T) {
		e := newEnv(t)
		e.comps.ByUser = map[uuid.UUID][]competitiondomain.Competition{e.ben: {*e.comps.Competition}}
		_, err := e.svc.GetCompetitionStats(ctx, e.competitionID())
		require.NoError(t, err)

		require.NoError(t, e.svc.InvalidateUser(ctx, e.ben))
		_, _ = e.svc.GetCompetitionStats(ctx, e.competitionID())
		assert.Equal(t, 2, e.repo.Reads())
	})

	t.Run("invalidation during computation is not overwritten", func(t *testing.T) {
		e := newEnv(t)
		e.repo.ListPointFactsFunc = func(ctx context.Context, competitionID uuid.UUID) ([]leaderboarddomain.Fact, error) {
			e.svc.InvalidateCompetitions(competitionID)
			return nil, nil
		}
		_, err := e.svc.GetCompetitionStats(ctx, e.competitionID())
		require.NoError(t, err)
		e.repo.ListPointFactsFunc = nil
		_, _ = e.svc.GetCompetitionStats(ctx, e.competitionID())
		assert.Equal(t, 2, e.repo.Reads())
	})
}

func TestGetFeed(t *testing.T) {
	e := newEnv(t)
	w := uuid.New()
	e.repo.Feed = []leaderboarddomain.FeedRow{
		{PointID: uuid.New(), WorkoutID: w, Username: "ana", Raw: dec("12"), Capped: dec("10")},
		{PointID: uuid.New(), WorkoutID: w, Username: "ana", Raw: dec("3"), Capped: dec("3")},
	}

	items, err := e.svc.GetFeed(context.Background(), e.competitionID(), 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Capped.Equal(dec("13")))

	_, err = e.svc.GetFeed(context.Background(), uuid.New(), 20)
	assert.ErrorIs(t, err, ErrCompetitionNotFound)
}

func TestRenderChart(t *testing.T) {
	e := newEnv(t)
	png, err := e.svc.RenderChart(context.Background(), e.competitionID())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	e.repo.Facts = nil
	e.svc.InvalidateCompetitions(e.competitionID())
	png, err = e.svc.RenderChart(context.Background(), e.competitionID())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "placeholder is still a PNG")
}

func TestExportLeaderboard(t *testing.T) {
	e := newEnv(t)
	data, err := e.svc.ExportLeaderboard(context.Background(), e.competitionID())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(individualSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Rank", "Username", "Points"}, rows[0])
	assert.Equal(t, []string{"1", "ben", "125"}, rows[1])
	assert.Equal(t, "dov", rows[4][1])

	teams, err := f.GetRows(teamSheet)
	require.NoError(t, err)
	require.Len(t, teams, 4)
	assert.Equal(t, []string{"1", "Red", "2", "112.5"}, teams[1])
}
