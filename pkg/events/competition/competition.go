package competitionevents

import "github.com/google/uuid"

const (
	// GoalsChangedV1 is published when goals of a competition are created, edited or removed.
	GoalsChangedV1 = "competition.goals.changed.v1"
	// MembershipChangedV1 is published when a user joins a competition or a team.
	MembershipChangedV1 = "competition.membership.changed.v1"
)

type GoalsChangedPayloadV1 struct {
	CompetitionID uuid.UUID   `json:"competition_id"`
	GoalIDs       []uuid.UUID `json:"goal_ids"`
}

type MembershipChangedPayloadV1 struct {
	CompetitionID uuid.UUID  `json:"competition_id"`
	UserID        uuid.UUID  `json:"user_id"`
	TeamID        *uuid.UUID `json:"team_id,omitempty"`
}
