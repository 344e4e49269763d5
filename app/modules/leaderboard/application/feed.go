package leaderboardservice

import (
	"context"
	"errors"
	"fmt"

	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
)

type feedResult = results.OperationResult[[]leaderboarddomain.FeedItem, error]

// GetFeed groups the latest point rows of a competition per workout.
func (s *LeaderboardService) GetFeed(ctx context.Context, competitionID uuid.UUID, limit int) ([]leaderboarddomain.FeedItem, error) {
	result, err := withTelemetry(s, ctx, "GetFeed", competitionID.String(), func(ctx context.Context) (feedResult, error) {
		if _, err := s.competitions.GetCompetition(ctx, nil, competitionID); err != nil {
			if errors.Is(err, competitiondb.ErrNotFound) {
				return results.FailureResult[[]leaderboarddomain.FeedItem, error](ErrCompetitionNotFound), nil
			}
			return feedResult{}, fmt.Errorf("failed to load competition: %w", err)
		}
		rows, err := s.repo.ListFeedRows(ctx, nil, competitionID, limit)
		if err != nil {
			return feedResult{}, err
		}
		items := leaderboarddomain.GroupFeed(rows)
		if items == nil {
			items = []leaderboarddomain.FeedItem{}
		}
		return results.SuccessResult[[]leaderboarddomain.FeedItem, error](items), nil
	})
	return unwrap(result, err)
}

// InvalidateCompetitions drops cached stats.
func (s *LeaderboardService) InvalidateCompetitions(competitionIDs ...uuid.UUID) {
	s.cache.invalidate(competitionIDs...)
}

// InvalidateUser drops cached stats of the user's competitions.
func (s *LeaderboardService) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	comps, err := s.competitions.ListCompetitionsForUser(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("failed to list competitions of user %s: %w", userID, err)
	}
	ids := make([]uuid.UUID, len(comps))
	for i, c := range comps {
		ids[i] = c.ID
	}
	s.cache.invalidate(ids...)
	s.logger.DebugContext(ctx, "Invalidated cached stats",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("user_id", userID),
		attr.Int("competitions", len(ids)),
	)
	return nil
}
