package competitionservice

import (
	"context"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	"github.com/google/uuid"
)

// Service defines the competition management operations.
type Service interface {
	CreateCompetition(ctx context.Context, ownerID uuid.UUID, c competitiondomain.Competition) (*competitiondomain.Competition, error)
	GetCompetition(ctx context.Context, id uuid.UUID) (*competitiondomain.Competition, error)
	ListCompetitionsForUser(ctx context.Context, userID uuid.UUID) ([]competitiondomain.Competition, error)
	JoinCompetition(ctx context.Context, userID uuid.UUID, joinCode string) (*competitiondomain.Competition, error)

	CreateTeam(ctx context.Context, actorID, competitionID uuid.UUID, name string) (*competitiondomain.Team, error)
	JoinTeam(ctx context.Context, userID, teamID uuid.UUID) (*competitiondomain.Team, error)

	CreateGoal(ctx context.Context, actorID uuid.UUID, g competitiondomain.Goal) (*competitiondomain.Goal, error)
	UpdateGoal(ctx context.Context, actorID uuid.UUID, g competitiondomain.Goal) (*competitiondomain.Goal, error)
	DeleteGoal(ctx context.Context, actorID, goalID uuid.UUID) error

	CreateAward(ctx context.Context, actorID, competitionID uuid.UUID, name string) (*competitiondomain.Award, error)
}
