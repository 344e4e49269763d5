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

type goalResult = results.OperationResult[outcome[*competitiondomain.Goal], error]

func goalFailure(err error) (goalResult, error) {
	if isDomainFailure(err) {
		return results.FailureResult[outcome[*competitiondomain.Goal], error](err), nil
	}
	return goalResult{}, err
}

func goalsChanged(competitionID uuid.UUID, goalIDs ...uuid.UUID) []handlerwrapper.Result {
	return []handlerwrapper.Result{{
		Topic:   competitionevents.GoalsChangedV1,
		Payload: competitionevents.GoalsChangedPayloadV1{CompetitionID: competitionID, GoalIDs: goalIDs},
	}}
}

// CreateGoal adds a goal to the competition named by g.CompetitionID.
// Only the owner may add goals.
func (s *CompetitionService) CreateGoal(ctx context.Context, actorID uuid.UUID, g competitiondomain.Goal) (*competitiondomain.Goal, error) {
	g.ID = uuid.New()
	g.Name = strings.TrimSpace(g.Name)

	result, err := withTelemetry(s, ctx, "CreateGoal", g.CompetitionID.String(), func(ctx context.Context) (goalResult, error) {
		if err := g.Validate(); err != nil {
			return goalFailure(err)
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (goalResult, error) {
			if _, err := s.requireOwner(ctx, db, g.CompetitionID, actorID); err != nil {
				return goalFailure(err)
			}
			if err := s.repo.CreateGoal(ctx, db, g); err != nil {
				return goalResult{}, err
			}
			return results.SuccessResult[outcome[*competitiondomain.Goal], error](outcome[*competitiondomain.Goal]{
				value:  &g,
				events: goalsChanged(g.CompetitionID, g.ID),
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

// UpdateGoal replaces the definition of an existing goal. The goal stays in
// its competition whatever g.CompetitionID says.
func (s *CompetitionService) UpdateGoal(ctx context.Context, actorID uuid.UUID, g competitiondomain.Goal) (*competitiondomain.Goal, error) {
	g.Name = strings.TrimSpace(g.Name)

	result, err := withTelemetry(s, ctx, "UpdateGoal", g.ID.String(), func(ctx context.Context) (goalResult, error) {
		if err := g.Validate(); err != nil {
			return goalFailure(err)
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (goalResult, error) {
			existing, err := s.repo.GetGoal(ctx, db, g.ID)
			if err != nil {
				return goalFailure(err)
			}
			g.CompetitionID = existing.CompetitionID
			if _, err := s.requireOwner(ctx, db, g.CompetitionID, actorID); err != nil {
				return goalFailure(err)
			}
			if err := s.repo.UpdateGoal(ctx, db, g); err != nil {
				return goalFailure(err)
			}
			return results.SuccessResult[outcome[*competitiondomain.Goal], error](outcome[*competitiondomain.Goal]{
				value:  &g,
				events: goalsChanged(g.CompetitionID, g.ID),
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

// DeleteGoal removes a goal. Its points go with it.
func (s *CompetitionService) DeleteGoal(ctx context.Context, actorID, goalID uuid.UUID) error {
	result, err := withTelemetry(s, ctx, "DeleteGoal", goalID.String(), func(ctx context.Context) (goalResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (goalResult, error) {
			existing, err := s.repo.GetGoal(ctx, db, goalID)
			if err != nil {
				return goalFailure(err)
			}
			if _, err := s.requireOwner(ctx, db, existing.CompetitionID, actorID); err != nil {
				return goalFailure(err)
			}
			if err := s.repo.DeleteGoal(ctx, db, goalID); err != nil {
				return goalFailure(err)
			}
			return results.SuccessResult[outcome[*competitiondomain.Goal], error](outcome[*competitiondomain.Goal]{
				value:  existing,
				events: goalsChanged(existing.CompetitionID, goalID),
			}), nil
		})
	})
	out, err := unwrap(result, err)
	if err != nil {
		return err
	}
	s.publish(ctx, out.events)
	return nil
}

type awardResult = results.OperationResult[outcome[*competitiondomain.Award], error]

// CreateAward defines a manually granted point source. Only the owner may add awards.
func (s *CompetitionService) CreateAward(ctx context.Context, actorID, competitionID uuid.UUID, name string) (*competitiondomain.Award, error) {
	name = strings.TrimSpace(name)

	result, err := withTelemetry(s, ctx, "CreateAward", competitionID.String(), func(ctx context.Context) (awardResult, error) {
		if name == "" {
			return results.FailureResult[outcome[*competitiondomain.Award], error](ErrInvalidName), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (awardResult, error) {
			if _, err := s.requireOwner(ctx, db, competitionID, actorID); err != nil {
				if isDomainFailure(err) {
					return results.FailureResult[outcome[*competitiondomain.Award], error](err), nil
				}
				return awardResult{}, err
			}
			a := competitiondomain.Award{ID: uuid.New(), CompetitionID: competitionID, Name: name}
			if err := s.repo.CreateAward(ctx, db, a); err != nil {
				return awardResult{}, err
			}
			return results.SuccessResult[outcome[*competitiondomain.Award], error](outcome[*competitiondomain.Award]{value: &a}), nil
		})
	})
	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	return out.value, nil
}
