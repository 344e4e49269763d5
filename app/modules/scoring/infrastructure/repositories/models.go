package scoringdb

import (
	"time"

	scoringdomain "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Point is one ledger row. Exactly one of GoalID and AwardID is set.
type Point struct {
	bun.BaseModel `bun:"table:points,alias:p"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid"`
	GoalID       uuid.NullUUID   `bun:"goal_id,type:uuid"`
	AwardID      uuid.NullUUID   `bun:"award_id,type:uuid"`
	WorkoutID    uuid.UUID       `bun:"workout_id,type:uuid,notnull"`
	PointsRaw    decimal.Decimal `bun:"points_raw,type:numeric(9,2),notnull"`
	PointsCapped decimal.Decimal `bun:"points_capped,type:numeric(9,2),notnull"`
	CreatedAt    time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

// LedgerPoint is a point row together with the competition its goal or award
// belongs to.
type LedgerPoint struct {
	Point `bun:",extend"`

	CompetitionID uuid.UUID `bun:"competition_id,type:uuid"`
}

// GoalRow converts a goal point to its domain form. ok is false for award rows.
func (p LedgerPoint) GoalRow() (row scoringdomain.LedgerRow, ok bool) {
	if !p.GoalID.Valid {
		return scoringdomain.LedgerRow{}, false
	}
	return scoringdomain.LedgerRow{
		ID:            p.ID,
		GoalID:        p.GoalID.UUID,
		CompetitionID: p.CompetitionID,
		Raw:           p.PointsRaw,
		Capped:        p.PointsCapped,
	}, true
}

// PointFromMatch builds a new goal row for workoutID.
func PointFromMatch(workoutID uuid.UUID, m scoringdomain.GoalMatch) Point {
	return Point{
		ID:           uuid.New(),
		GoalID:       uuid.NullUUID{UUID: m.GoalID, Valid: true},
		WorkoutID:    workoutID,
		PointsRaw:    m.Raw,
		PointsCapped: m.Capped(),
	}
}
