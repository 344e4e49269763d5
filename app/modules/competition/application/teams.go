package competitionservice

import (
	"context"
	"strings"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	competitionevents "github.com/Black-And-White-Club/fitcomp/pkg/events/competition"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type teamResult = results.OperationResult[outcome[*competitiondomain.Team], error]

func teamFailure(err error) (teamResult, error) {
	if isDomainFailure(err) {
		return results.FailureResult[outcome[*competitiondomain.Team], error](err), nil
	}
	return teamResult{}, err
}

// CreateTeam adds a team to a competition with teams enabled. Any participant may create one.
func (s *CompetitionService) CreateTeam(ctx context.Context, actorID, competitionID uuid.UUID, name string) (*competitiondomain.Team, error) {
	name = strings.TrimSpace(name)

	result, err := withTelemetry(s, ctx, "CreateTeam", competitionID.String(), func(ctx context.Context) (teamResult, error) {
		if name == "" {
			return teamFailure(ErrInvalidName)
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (teamResult, error) {
			if err := s.requireTeamsParticipant(ctx, db, competitionID, actorID); err != nil {
				return teamFailure(err)
			}
			t := competitiondomain.Team{ID: uuid.New(), CompetitionID: competitionID, Name: name}
			if err := s.repo.CreateTeam(ctx, db, t); err != nil {
				return teamResult{}, err
			}
			return results.SuccessResult[outcome[*competitiondomain.Team], error](outcome[*competitiondomain.Team]{value: &t}), nil
		})
	})
	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	return out.value, nil
}

// JoinTeam moves userID into teamID, leaving any other team of that competition.
func (s *CompetitionService) JoinTeam(ctx context.Context, userID, teamID uuid.UUID) (*competitiondomain.Team, error) {
	result, err := withTelemetry(s, ctx, "JoinTeam", teamID.String(), func(ctx context.Context) (teamResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (teamResult, error) {
			t, err := s.repo.GetTeam(ctx, db, teamID)
			if err != nil {
				return teamFailure(err)
			}
			if err := s.requireTeamsParticipant(ctx, db, t.CompetitionID, userID); err != nil {
				return teamFailure(err)
			}
			if err := s.repo.JoinTeam(ctx, db, t.CompetitionID, t.ID, userID); err != nil {
				return teamResult{}, err
			}
			return results.SuccessResult[outcome[*competitiondomain.Team], error](outcome[*competitiondomain.Team]{
				value: t,
				events: []handlerwrapper.Result{{
					Topic: competitionevents.MembershipChangedV1,
					Payload: competitionevents.MembershipChangedPayloadV1{
						CompetitionID: t.CompetitionID,
						UserID:        userID,
						TeamID:        &t.ID,
					},
				}},
			}), nil
		})
	})
	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, out.events)
	return out.value, nil
}

func (s *CompetitionService) requireTeamsParticipant(ctx context.Context, db bun.IDB, competitionID, userID uuid.UUID) error {
	c, err := s.repo.GetCompetition(ctx, db, competitionID)
	if err != nil {
		return err
	}
	if !c.HasTeams {
		return ErrTeamsDisabled
	}
	member, err := s.repo.IsMember(ctx, db, competitionID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotParticipant
	}
	return nil
}
