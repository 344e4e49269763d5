package leaderboarddb

import (
	"context"
	"fmt"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

type factRow struct {
	WorkoutID    uuid.UUID       `bun:"workout_id"`
	UserID       uuid.UUID       `bun:"user_id"`
	StartedAt    time.Time       `bun:"started_at"`
	PointsCapped decimal.Decimal `bun:"points_capped"`
}

// competitionPoints selects point rows whose goal or award belongs to the competition.
func competitionPoints(q *bun.SelectQuery, competitionID uuid.UUID) *bun.SelectQuery {
	return q.
		TableExpr("points AS p").
		Join("JOIN workouts AS w ON w.id = p.workout_id").
		Join("LEFT JOIN goals AS g ON g.id = p.goal_id").
		Join("LEFT JOIN awards AS a ON a.id = p.award_id").
		Where("COALESCE(g.competition_id, a.competition_id) = ?", competitionID)
}

func (r *Impl) ListPointFacts(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]leaderboarddomain.Fact, error) {
	var rows []factRow
	err := competitionPoints(r.resolveDB(db).NewSelect(), competitionID).
		ColumnExpr("p.workout_id, w.user_id, w.started_at, p.points_capped").
		OrderExpr("w.started_at, p.id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListPointFacts: %w", err)
	}

	facts := make([]leaderboarddomain.Fact, len(rows))
	for i, row := range rows {
		facts[i] = leaderboarddomain.Fact{
			WorkoutID: row.WorkoutID,
			UserID:    row.UserID,
			StartedAt: row.StartedAt,
			Capped:    row.PointsCapped,
		}
	}
	return facts, nil
}

type feedRow struct {
	PointID           uuid.UUID       `bun:"point_id"`
	WorkoutID         uuid.UUID       `bun:"workout_id"`
	UserID            uuid.UUID       `bun:"user_id"`
	Username          string          `bun:"username"`
	StravaAllowFollow bool            `bun:"strava_allow_follow"`
	SportType         string          `bun:"sport_type"`
	StartedAt         time.Time       `bun:"started_at"`
	DurationSeconds   int64           `bun:"duration_seconds"`
	ExternalID        *int64          `bun:"external_id"`
	GoalID            uuid.NullUUID   `bun:"goal_id,type:uuid"`
	GoalName          *string         `bun:"goal_name"`
	AwardID           uuid.NullUUID   `bun:"award_id,type:uuid"`
	AwardName         *string         `bun:"award_name"`
	PointsRaw         decimal.Decimal `bun:"points_raw"`
	PointsCapped      decimal.Decimal `bun:"points_capped"`
}

func (r *Impl) ListFeedRows(ctx context.Context, db bun.IDB, competitionID uuid.UUID, limit int) ([]leaderboarddomain.FeedRow, error) {
	q := competitionPoints(r.resolveDB(db).NewSelect(), competitionID).
		Join("JOIN users AS u ON u.id = w.user_id").
		ColumnExpr("p.id AS point_id, p.workout_id, w.user_id, u.username, u.strava_allow_follow").
		ColumnExpr("w.sport_type, w.started_at, w.duration_seconds, w.external_id").
		ColumnExpr("p.goal_id, g.name AS goal_name, p.award_id, a.name AS award_name").
		ColumnExpr("p.points_raw, p.points_capped").
		OrderExpr("w.started_at DESC, w.duration_seconds DESC, w.id DESC, p.goal_id IS NULL, p.id")
	if limit > 0 {
		// Limit whole workouts, not point rows.
		q = q.Where("p.workout_id IN (?)", competitionPoints(r.resolveDB(db).NewSelect(), competitionID).
			ColumnExpr("w.id").
			GroupExpr("w.id, w.started_at, w.duration_seconds").
			OrderExpr("w.started_at DESC, w.duration_seconds DESC, w.id DESC").
			Limit(limit))
	}

	var rows []feedRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListFeedRows: %w", err)
	}

	out := make([]leaderboarddomain.FeedRow, len(rows))
	for i, row := range rows {
		out[i] = leaderboarddomain.FeedRow{
			PointID:           row.PointID,
			WorkoutID:         row.WorkoutID,
			UserID:            row.UserID,
			Username:          row.Username,
			StravaAllowFollow: row.StravaAllowFollow,
			SportType:         row.SportType,
			StartedAt:         row.StartedAt,
			DurationSeconds:   row.DurationSeconds,
			ExternalID:        row.ExternalID,
			GoalID:            row.GoalID,
			GoalName:          row.GoalName,
			AwardID:           row.AwardID,
			AwardName:         row.AwardName,
			Raw:               row.PointsRaw,
			Capped:            row.PointsCapped,
		}
	}
	return out, nil
}
