package scoringservice

import (
	"context"

	scoringdomain "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/domain"
	scoringdb "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/repositories"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	scoringevents "github.com/Black-And-White-Club/fitcomp/pkg/events/scoring"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	eventCreated   = "created"
	eventUpdated   = "updated"
	eventDeleted   = "deleted"
	eventRecompute = "recompute"
	eventAward     = "award"
)

// reconciliation reports the ledger writes made for one workout.
type reconciliation struct {
	workout        workoutdomain.Workout
	event          string
	inserted       int
	updated        int
	deleted        int
	competitionIDs []uuid.UUID
}

type reconciliationResult = results.OperationResult[reconciliation, error]

func (r reconciliation) changes() int {
	return r.inserted + r.updated + r.deleted
}

func (r reconciliation) payload() scoringevents.PointsReconciledPayloadV1 {
	return scoringevents.PointsReconciledPayloadV1{
		WorkoutID:      r.workout.ID,
		UserID:         r.workout.UserID,
		Event:          r.event,
		CompetitionIDs: r.competitionIDs,
		Inserted:       r.inserted,
		Updated:        r.updated,
		Deleted:        r.deleted,
	}
}

// reconcile brings the goal rows of w in line with the goals it currently
// matches. Award rows are left alone. The caller owns the transaction.
func (s *ScoringService) reconcile(ctx context.Context, db bun.IDB, w workoutdomain.Workout, event string) (reconciliation, error) {
	if err := s.repo.AcquireWorkoutLock(ctx, db, w.ID); err != nil {
		return reconciliation{}, err
	}

	active, err := s.competitions.ListActiveGoalsForUser(ctx, db, w.UserID, w.CalendarDate(s.loc))
	if err != nil {
		return reconciliation{}, err
	}
	matches, err := scoringdomain.Match(w, active, s.loc)
	if err != nil {
		return reconciliation{}, err
	}

	stored, err := s.repo.ListByWorkout(ctx, db, w.ID)
	if err != nil {
		return reconciliation{}, err
	}
	existing := make([]scoringdomain.LedgerRow, 0, len(stored))
	for _, p := range stored {
		if row, ok := p.GoalRow(); ok {
			existing = append(existing, row)
		}
	}

	plan := scoringdomain.PlanReconciliation(existing, matches)

	if len(plan.Delete) > 0 {
		ids := make([]uuid.UUID, len(plan.Delete))
		for i, r := range plan.Delete {
			ids[i] = r.ID
		}
		if err := s.repo.DeletePoints(ctx, db, ids); err != nil {
			return reconciliation{}, err
		}
	}
	for _, r := range plan.Update {
		err := s.repo.UpdatePoint(ctx, db, scoringdb.Point{
			ID:           r.ID,
			GoalID:       uuid.NullUUID{UUID: r.GoalID, Valid: true},
			WorkoutID:    w.ID,
			PointsRaw:    r.Raw,
			PointsCapped: r.Capped,
		})
		if err != nil {
			return reconciliation{}, err
		}
	}
	if len(plan.Insert) > 0 {
		points := make([]scoringdb.Point, len(plan.Insert))
		for i, m := range plan.Insert {
			points[i] = scoringdb.PointFromMatch(w.ID, m)
		}
		if err := s.repo.InsertPoints(ctx, db, points); err != nil {
			return reconciliation{}, err
		}
	}

	return reconciliation{
		workout:        w,
		event:          event,
		inserted:       len(plan.Insert),
		updated:        len(plan.Update),
		deleted:        len(plan.Delete),
		competitionIDs: plan.CompetitionIDs(),
	}, nil
}

// clear removes every row of w, awards included.
func (s *ScoringService) clear(ctx context.Context, db bun.IDB, w workoutdomain.Workout) (reconciliation, error) {
	if err := s.repo.AcquireWorkoutLock(ctx, db, w.ID); err != nil {
		return reconciliation{}, err
	}
	stored, err := s.repo.ListByWorkout(ctx, db, w.ID)
	if err != nil {
		return reconciliation{}, err
	}
	n, err := s.repo.DeleteByWorkout(ctx, db, w.ID)
	if err != nil {
		return reconciliation{}, err
	}

	seen := make(map[uuid.UUID]struct{})
	var competitionIDs []uuid.UUID
	for _, p := range stored {
		if _, ok := seen[p.CompetitionID]; ok || p.CompetitionID == uuid.Nil {
			continue
		}
		seen[p.CompetitionID] = struct{}{}
		competitionIDs = append(competitionIDs, p.CompetitionID)
	}

	return reconciliation{
		workout:        w,
		event:          eventDeleted,
		deleted:        n,
		competitionIDs: competitionIDs,
	}, nil
}
