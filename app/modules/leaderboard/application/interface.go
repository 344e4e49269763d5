package leaderboardservice

import (
	"context"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service produces competition statistics from the point ledger.
type Service interface {
	// GetCompetitionStats returns the timeseries, leaderboards and summary of
	// a competition. Results are cached for the configured TTL.
	GetCompetitionStats(ctx context.Context, competitionID uuid.UUID) (*CompetitionStats, error)

	// GetFeed returns the most recent scored workouts of a competition.
	// A limit of zero returns all of them.
	GetFeed(ctx context.Context, competitionID uuid.UUID, limit int) ([]leaderboarddomain.FeedItem, error)

	// RenderChart draws cumulative points per member as a PNG.
	RenderChart(ctx context.Context, competitionID uuid.UUID) ([]byte, error)

	// ExportLeaderboard writes both leaderboards into an XLSX workbook.
	ExportLeaderboard(ctx context.Context, competitionID uuid.UUID) ([]byte, error)

	// InvalidateCompetitions drops cached stats of the given competitions.
	InvalidateCompetitions(competitionIDs ...uuid.UUID)

	// InvalidateUser drops cached stats of every competition the user is in.
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}

// CompetitionLookup is the read side of the competition store stats need.
type CompetitionLookup interface {
	GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Competition, error)
	ListCompetitionsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]competitiondomain.Competition, error)
	ListMemberIDs(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]uuid.UUID, error)
	ListTeams(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Team, error)
	ListTeamMemberships(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondb.TeamMembership, error)
	ListGoals(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Goal, error)
}

// UserLookup resolves member profiles for leaderboard entries.
type UserLookup interface {
	ListByIDs(ctx context.Context, db bun.IDB, ids []uuid.UUID) ([]userdb.User, error)
}
