package scoringevents

import "github.com/google/uuid"

const (
	// PointsReconciledV1 is published after the ledger for a workout changed.
	PointsReconciledV1 = "points.reconciled.v1"
	// PointsReconciledScopedV1 is the base of the per-competition fan-out topic.
	PointsReconciledScopedV1 = "points.competition.v1"
)

// PointsReconciledPayloadV1 summarises one reconciliation.
type PointsReconciledPayloadV1 struct {
	WorkoutID      uuid.UUID   `json:"workout_id"`
	UserID         uuid.UUID   `json:"user_id"`
	Event          string      `json:"event"`
	CompetitionIDs []uuid.UUID `json:"competition_ids"`
	Inserted       int         `json:"inserted"`
	Updated        int         `json:"updated"`
	Deleted        int         `json:"deleted"`
}
