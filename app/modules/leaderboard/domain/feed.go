package leaderboarddomain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeedRow is one point row of a competition joined with its workout and user.
type FeedRow struct {
	PointID           uuid.UUID
	WorkoutID         uuid.UUID
	UserID            uuid.UUID
	Username          string
	StravaAllowFollow bool
	SportType         string
	StartedAt         time.Time
	DurationSeconds   int64
	ExternalID        *int64
	GoalID            uuid.NullUUID
	GoalName          *string
	AwardID           uuid.NullUUID
	AwardName         *string
	Raw               decimal.Decimal
	Capped            decimal.Decimal
}

// FeedDetail is the contribution of one goal or award to a feed item.
type FeedDetail struct {
	PointID   uuid.UUID       `json:"point_id"`
	GoalID    uuid.NullUUID   `json:"goal_id"`
	GoalName  *string         `json:"goal_name,omitempty"`
	AwardID   uuid.NullUUID   `json:"award_id"`
	AwardName *string         `json:"award_name,omitempty"`
	Raw       decimal.Decimal `json:"points_raw"`
	Capped    decimal.Decimal `json:"points_capped"`
}

// FeedItem is one workout of the activity feed with its summed points.
type FeedItem struct {
	WorkoutID       uuid.UUID       `json:"workout_id"`
	UserID          uuid.UUID       `json:"user_id"`
	Username        string          `json:"username"`
	SportType       string          `json:"sport_type"`
	StartedAt       time.Time       `json:"started_at"`
	DurationSeconds int64           `json:"duration_seconds"`
	ExternalID      *int64          `json:"external_id,omitempty"`
	Raw             decimal.Decimal `json:"points_raw"`
	Capped          decimal.Decimal `json:"points_capped"`
	Details         []FeedDetail    `json:"details"`
}

// GroupFeed folds rows into one item per workout, keeping the order in which
// workouts first appear. The provider activity id is only exposed for users
// who allow following.
func GroupFeed(rows []FeedRow) []FeedItem {
	index := map[uuid.UUID]int{}
	var out []FeedItem
	for _, r := range rows {
		i, ok := index[r.WorkoutID]
		if !ok {
			i = len(out)
			index[r.WorkoutID] = i
			item := FeedItem{
				WorkoutID:       r.WorkoutID,
				UserID:          r.UserID,
				Username:        r.Username,
				SportType:       r.SportType,
				StartedAt:       r.StartedAt,
				DurationSeconds: r.DurationSeconds,
			}
			if r.StravaAllowFollow {
				item.ExternalID = r.ExternalID
			}
			out = append(out, item)
		}
		out[i].Raw = out[i].Raw.Add(r.Raw)
		out[i].Capped = out[i].Capped.Add(r.Capped)
		out[i].Details = append(out[i].Details, FeedDetail{
			PointID:   r.PointID,
			GoalID:    r.GoalID,
			GoalName:  r.GoalName,
			AwardID:   r.AwardID,
			AwardName: r.AwardName,
			Raw:       r.Raw,
			Capped:    r.Capped,
		})
	}
	return out
}
