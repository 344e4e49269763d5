package scoringdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a point row is not found.
var ErrNotFound = errors.New("point not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new point ledger repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) AcquireWorkoutLock(ctx context.Context, db bun.IDB, workoutID uuid.UUID) error {
	_, err := r.resolveDB(db).ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext(?))", "workout:"+workoutID.String())
	if err != nil {
		return fmt.Errorf("failed to lock workout %s: %w", workoutID, err)
	}
	return nil
}

func (r *Impl) ListByWorkout(ctx context.Context, db bun.IDB, workoutID uuid.UUID) ([]LedgerPoint, error) {
	var rows []LedgerPoint
	err := r.resolveDB(db).NewSelect().
		Model(&rows).
		ColumnExpr("p.*").
		ColumnExpr("COALESCE(g.competition_id, a.competition_id) AS competition_id").
		Join("LEFT JOIN goals AS g ON g.id = p.goal_id").
		Join("LEFT JOIN awards AS a ON a.id = p.award_id").
		Where("p.workout_id = ?", workoutID).
		OrderExpr("p.goal_id IS NULL, p.created_at, p.id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list points of workout %s: %w", workoutID, err)
	}
	return rows, nil
}

func (r *Impl) InsertPoints(ctx context.Context, db bun.IDB, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	if _, err := r.resolveDB(db).NewInsert().Model(&points).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert points: %w", err)
	}
	return nil
}

func (r *Impl) UpdatePoint(ctx context.Context, db bun.IDB, point Point) error {
	point.UpdatedAt = time.Now()
	res, err := r.resolveDB(db).NewUpdate().
		Model(&point).
		Column("points_raw", "points_capped", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update point %s: %w", point.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) DeletePoints(ctx context.Context, db bun.IDB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.resolveDB(db).NewDelete().
		Model((*Point)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

func (r *Impl) DeleteByWorkout(ctx context.Context, db bun.IDB, workoutID uuid.UUID) (int, error) {
	res, err := r.resolveDB(db).NewDelete().
		Model((*Point)(nil)).
		Where("workout_id = ?", workoutID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete points of workout %s: %w", workoutID, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *Impl) UpsertAward(ctx context.Context, db bun.IDB, point Point) error {
	point.UpdatedAt = time.Now()
	_, err := r.resolveDB(db).NewInsert().
		Model(&point).
		On("CONFLICT (workout_id, award_id) DO UPDATE").
		Set("points_raw = EXCLUDED.points_raw").
		Set("points_capped = EXCLUDED.points_capped").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert award points: %w", err)
	}
	return nil
}
