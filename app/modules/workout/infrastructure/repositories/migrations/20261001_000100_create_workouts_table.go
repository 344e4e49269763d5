package workoutmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating workouts table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS workouts (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				sport_type VARCHAR(64) NOT NULL,
				started_at TIMESTAMPTZ NOT NULL,
				duration_seconds BIGINT NOT NULL CHECK (duration_seconds > 0),
				intensity_category SMALLINT NOT NULL DEFAULT 2 CHECK (intensity_category BETWEEN 1 AND 4),
				kcal NUMERIC(9,2) NOT NULL CHECK (kcal >= 0),
				distance_km NUMERIC(9,2) CHECK (distance_km >= 0),
				external_id BIGINT UNIQUE,
				external_avg_watts NUMERIC(9,2),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_workouts_user_started ON workouts(user_id, started_at);
		`)
		if err != nil {
			return fmt.Errorf("failed to create workouts table: %w", err)
		}

		fmt.Println("Workouts table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping workouts table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS workouts CASCADE;`); err != nil {
			return fmt.Errorf("failed to drop workouts table: %w", err)
		}
		return nil
	})
}
