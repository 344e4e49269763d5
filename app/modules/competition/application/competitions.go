package competitionservice

import (
	"context"
	"errors"
	"fmt"

	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	competitionevents "github.com/Black-And-White-Club/fitcomp/pkg/events/competition"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type competitionResult = results.OperationResult[outcome[*competitiondomain.Competition], error]

// CreateCompetition stores a new competition owned by ownerID and enrolls the owner.
func (s *CompetitionService) CreateCompetition(ctx context.Context, ownerID uuid.UUID, c competitiondomain.Competition) (*competitiondomain.Competition, error) {
	result, err := withTelemetry(s, ctx, "CreateCompetition", ownerID.String(), func(ctx context.Context) (competitionResult, error) {
		c.ID = uuid.New()
		c.OwnerID = ownerID
		if err := c.Validate(); err != nil {
			return results.FailureResult[outcome[*competitiondomain.Competition], error](err), nil
		}
		code, err := competitiondomain.NewJoinCode()
		if err != nil {
			return competitionResult{}, err
		}
		c.JoinCode = code

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (competitionResult, error) {
			if err := s.repo.CreateCompetition(ctx, db, c); err != nil {
				return competitionResult{}, err
			}
			if _, err := s.repo.AddMember(ctx, db, c.ID, ownerID); err != nil {
				return competitionResult{}, err
			}
			return results.SuccessResult[outcome[*competitiondomain.Competition], error](outcome[*competitiondomain.Competition]{
				value: &c,
				events: []handlerwrapper.Result{{
					Topic:   competitionevents.MembershipChangedV1,
					Payload: competitionevents.MembershipChangedPayloadV1{CompetitionID: c.ID, UserID: ownerID},
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

// GetCompetition retrieves a competition by id.
func (s *CompetitionService) GetCompetition(ctx context.Context, id uuid.UUID) (*competitiondomain.Competition, error) {
	c, err := s.repo.GetCompetition(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("GetCompetition: %w", err)
	}
	return c, nil
}

// ListCompetitionsForUser returns the competitions a user participates in, newest first.
func (s *CompetitionService) ListCompetitionsForUser(ctx context.Context, userID uuid.UUID) ([]competitiondomain.Competition, error) {
	cs, err := s.repo.ListCompetitionsForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("ListCompetitionsForUser: %w", err)
	}
	return cs, nil
}

// JoinCompetition enrolls userID in the competition with the given join code.
// Joining twice is not an error.
func (s *CompetitionService) JoinCompetition(ctx context.Context, userID uuid.UUID, joinCode string) (*competitiondomain.Competition, error) {
	result, err := withTelemetry(s, ctx, "JoinCompetition", userID.String(), func(ctx context.Context) (competitionResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (competitionResult, error) {
			c, err := s.repo.GetByJoinCode(ctx, db, joinCode)
			if err != nil {
				if errors.Is(err, competitiondb.ErrNotFound) {
					return results.FailureResult[outcome[*competitiondomain.Competition], error](err), nil
				}
				return competitionResult{}, err
			}
			added, err := s.repo.AddMember(ctx, db, c.ID, userID)
			if err != nil {
				return competitionResult{}, err
			}
			out := outcome[*competitiondomain.Competition]{value: c}
			if added {
				out.events = []handlerwrapper.Result{{
					Topic:   competitionevents.MembershipChangedV1,
					Payload: competitionevents.MembershipChangedPayloadV1{CompetitionID: c.ID, UserID: userID},
				}}
			}
			return results.SuccessResult[outcome[*competitiondomain.Competition], error](out), nil
		})
	})
	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, out.events)
	return out.value, nil
}

// requireOwner loads the competition and checks actorID owns it.
func (s *CompetitionService) requireOwner(ctx context.Context, db bun.IDB, competitionID, actorID uuid.UUID) (*competitiondomain.Competition, error) {
	c, err := s.repo.GetCompetition(ctx, db, competitionID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	return c, nil
}

// isDomainFailure reports errors that are returned as failures rather than infrastructure errors.
func isDomainFailure(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, competitiondb.ErrNotFound) ||
		errors.Is(err, competitiondb.ErrTeamNotFound) ||
		errors.Is(err, competitiondb.ErrGoalNotFound) ||
		errors.Is(err, competitiondomain.ErrInvalidGoalConfiguration) ||
		errors.Is(err, competitiondomain.ErrInvalidCompetition) ||
		errors.Is(err, ErrInvalidName)
}
