package leaderboarddb

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository reads the point ledger for aggregation. Points are owned by the
// scoring module; nothing here writes.
type Repository interface {
	// ListPointFacts returns every point row of a competition, from goals and
	// awards alike, with the workout's owner and start time.
	ListPointFacts(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]leaderboarddomain.Fact, error)

	// ListFeedRows returns the point rows of a competition, newest workout first.
	ListFeedRows(ctx context.Context, db bun.IDB, competitionID uuid.UUID, limit int) ([]leaderboarddomain.FeedRow, error)
}
