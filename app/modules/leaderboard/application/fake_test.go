package leaderboardservice

import (
	"context"
	"sync"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/infrastructure/repositories"
	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeLeaderboardRepo serves fixed facts and counts reads.
type FakeLeaderboardRepo struct {
	mu    sync.Mutex
	Facts []leaderboarddomain.Fact
	Feed  []leaderboarddomain.FeedRow
	reads int

	ListPointFactsFunc func(ctx context.Context, competitionID uuid.UUID) ([]leaderboarddomain.Fact, error)
}

var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)

func (f *FakeLeaderboardRepo) ListPointFacts(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]leaderboarddomain.Fact, error) {
	f.mu.Lock()
	f.reads++
	f.mu.Unlock()
	if f.ListPointFactsFunc != nil {
		return f.ListPointFactsFunc(ctx, competitionID)
	}
	return f.Facts, nil
}

func (f *FakeLeaderboardRepo) ListFeedRows(ctx context.Context, db bun.IDB, competitionID uuid.UUID, limit int) ([]leaderboarddomain.FeedRow, error) {
	return f.Feed, nil
}

func (f *FakeLeaderboardRepo) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// FakeCompetitions holds one competition with its teams and goals.
type FakeCompetitions struct {
	Competition *competitiondomain.Competition
	Members     []uuid.UUID
	Teams       []competitiondomain.Team
	Memberships []competitiondb.TeamMembership
	Goals       []competitiondomain.Goal
	ByUser      map[uuid.UUID][]competitiondomain.Competition
}

func (f *FakeCompetitions) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Competition, error) {
	if f.Competition == nil || f.Competition.ID != id {
		return nil, competitiondb.ErrNotFound
	}
	return f.Competition, nil
}

func (f *FakeCompetitions) ListCompetitionsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]competitiondomain.Competition, error) {
	return f.ByUser[userID], nil
}

func (f *FakeCompetitions) ListMemberIDs(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]uuid.UUID, error) {
	return f.Members, nil
}

func (f *FakeCompetitions) ListTeams(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Team, error) {
	return f.Teams, nil
}

func (f *FakeCompetitions) ListTeamMemberships(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondb.TeamMembership, error) {
	return f.Memberships, nil
}

func (f *FakeCompetitions) ListGoals(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Goal, error) {
	return f.Goals, nil
}

// FakeUsers returns the users it holds, in slice order.
type FakeUsers struct {
	Users []userdb.User
}

func (f *FakeUsers) ListByIDs(ctx context.Context, db bun.IDB, ids []uuid.UUID) ([]userdb.User, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []userdb.User
	for _, u := range f.Users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}
