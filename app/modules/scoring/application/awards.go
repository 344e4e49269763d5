package scoringservice

import (
	"context"
	"errors"

	competitionservice "github.com/Black-And-White-Club/fitcomp/app/modules/competition/application"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	scoringdb "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/repositories"
	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// GrantAward books points for awardID on workoutID. Only the owner of the
// award's competition may grant it, and the workout must belong to a member
// and fall inside the competition dates. Award points are never capped.
func (s *ScoringService) GrantAward(ctx context.Context, actorID, awardID, workoutID uuid.UUID, points decimal.Decimal) error {
	points = points.Round(2)

	result, err := withTelemetry(s, ctx, "GrantAward", awardID.String(), func(ctx context.Context) (reconciliationResult, error) {
		return runInTxWithRetry(s, ctx, eventAward, func(ctx context.Context, db bun.IDB) (reconciliationResult, error) {
			award, err := s.competitions.GetAward(ctx, db, awardID)
			if err != nil {
				return awardFailure(err)
			}
			c, err := s.competitions.GetCompetition(ctx, db, award.CompetitionID)
			if err != nil {
				return awardFailure(err)
			}
			if c.OwnerID != actorID {
				return awardFailure(competitionservice.ErrNotOwner)
			}
			w, err := s.workouts.GetByID(ctx, db, workoutID)
			if err != nil {
				return awardFailure(err)
			}
			member, err := s.competitions.IsMember(ctx, db, c.ID, w.UserID)
			if err != nil {
				return reconciliationResult{}, err
			}
			if !member || !c.ContainsDate(w.CalendarDate(s.loc)) {
				return awardFailure(ErrWorkoutOutsideCompetition)
			}

			if err := s.repo.AcquireWorkoutLock(ctx, db, w.ID); err != nil {
				return reconciliationResult{}, err
			}
			err = s.repo.UpsertAward(ctx, db, scoringdb.Point{
				ID:           uuid.New(),
				AwardID:      uuid.NullUUID{UUID: award.ID, Valid: true},
				WorkoutID:    w.ID,
				PointsRaw:    points,
				PointsCapped: points,
			})
			if err != nil {
				return reconciliationResult{}, err
			}
			return results.SuccessResult[reconciliation, error](reconciliation{
				workout:        *w,
				event:          eventAward,
				inserted:       1,
				competitionIDs: []uuid.UUID{c.ID},
			}), nil
		})
	})
	rec, err := unwrap(result, err)
	if err != nil {
		return err
	}
	s.publish(ctx, rec)
	return nil
}

func awardFailure(err error) (reconciliationResult, error) {
	switch {
	case errors.Is(err, competitionservice.ErrPermissionDenied),
		errors.Is(err, competitiondb.ErrAwardNotFound),
		errors.Is(err, competitiondb.ErrNotFound),
		errors.Is(err, workoutdb.ErrNotFound),
		errors.Is(err, ErrWorkoutOutsideCompetition):
		return results.FailureResult[reconciliation, error](err), nil
	}
	return reconciliationResult{}, err
}
