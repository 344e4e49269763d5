package competitiondb

import (
	"context"
	"time"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for competition, team, goal and award persistence.
type Repository interface {
	// Competitions
	GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Competition, error)
	GetByJoinCode(ctx context.Context, db bun.IDB, code string) (*competitiondomain.Competition, error)
	CreateCompetition(ctx context.Context, db bun.IDB, c competitiondomain.Competition) error
	ListCompetitionsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]competitiondomain.Competition, error)

	// Membership
	AddMember(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) (bool, error)
	ListMemberIDs(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]uuid.UUID, error)

	// Teams
	CreateTeam(ctx context.Context, db bun.IDB, t competitiondomain.Team) error
	GetTeam(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Team, error)
	ListTeams(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Team, error)
	ListTeamMemberships(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]TeamMembership, error)
	// JoinTeam moves the user into teamID, leaving any other team of the competition.
	JoinTeam(ctx context.Context, db bun.IDB, competitionID, teamID, userID uuid.UUID) error

	// Goals
	GetGoal(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Goal, error)
	ListGoals(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.Goal, error)
	CreateGoal(ctx context.Context, db bun.IDB, g competitiondomain.Goal) error
	UpdateGoal(ctx context.Context, db bun.IDB, g competitiondomain.Goal) error
	DeleteGoal(ctx context.Context, db bun.IDB, id uuid.UUID) error

	// ListActiveGoalsForUser returns every competition the user belongs to whose
	// date range contains date, with its goals.
	ListActiveGoalsForUser(ctx context.Context, db bun.IDB, userID uuid.UUID, date time.Time) ([]competitiondomain.CompetitionGoals, error)

	// Awards
	CreateAward(ctx context.Context, db bun.IDB, a competitiondomain.Award) error
	GetAward(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondomain.Award, error)
}
