package workoutdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a workout is not found.
var ErrNotFound = errors.New("workout not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new workout repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) get(ctx context.Context, db bun.IDB, forUpdate bool, where string, arg any) (*workoutdomain.Workout, error) {
	row := new(Workout)
	q := r.resolveDB(db).NewSelect().Model(row).Where(where, arg)
	if forUpdate {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	w := row.ToDomain()
	return &w, nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error) {
	w, err := r.get(ctx, db, false, "id = ?", id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}
	return w, err
}

func (r *Impl) GetByIDForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*workoutdomain.Workout, error) {
	w, err := r.get(ctx, db, true, "id = ?", id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to lock workout: %w", err)
	}
	return w, err
}

func (r *Impl) GetByExternalID(ctx context.Context, db bun.IDB, externalID int64) (*workoutdomain.Workout, error) {
	w, err := r.get(ctx, db, false, "external_id = ?", externalID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get workout by external id: %w", err)
	}
	return w, err
}

func (r *Impl) Insert(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error {
	row := FromDomain(w)
	if _, err := r.resolveDB(db).NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert workout: %w", err)
	}
	return nil
}

func (r *Impl) Update(ctx context.Context, db bun.IDB, w workoutdomain.Workout) error {
	row := FromDomain(w)
	row.UpdatedAt = time.Now()
	res, err := r.resolveDB(db).NewUpdate().
		Model(row).
		ExcludeColumn("id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	res, err := r.resolveDB(db).NewDelete().
		Model((*Workout)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) ListByUser(ctx context.Context, db bun.IDB, userID uuid.UUID, limit int) ([]workoutdomain.Workout, error) {
	var rows []Workout
	q := r.resolveDB(db).NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	out := make([]workoutdomain.Workout, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *Impl) ListIDsForUsersBetween(ctx context.Context, db bun.IDB, userIDs []uuid.UUID, from, to time.Time) ([]uuid.UUID, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.resolveDB(db).NewSelect().
		Model((*Workout)(nil)).
		Column("id").
		Where("user_id IN (?)", bun.In(userIDs)).
		Where("started_at >= ?", from).
		Where("started_at < ?", to).
		OrderExpr("started_at ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout ids: %w", err)
	}
	return ids, nil
}
