package scoringmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating points table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS points (
				id UUID PRIMARY KEY,
				goal_id UUID REFERENCES goals(id) ON DELETE CASCADE,
				award_id UUID REFERENCES awards(id) ON DELETE CASCADE,
				workout_id UUID NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
				points_raw NUMERIC(9,2) NOT NULL,
				points_capped NUMERIC(9,2) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT points_single_source CHECK ((goal_id IS NULL) <> (award_id IS NULL)),
				CONSTRAINT points_workout_goal_key UNIQUE (workout_id, goal_id),
				CONSTRAINT points_workout_award_key UNIQUE (workout_id, award_id)
			);
			CREATE INDEX IF NOT EXISTS idx_points_goal ON points(goal_id);
			CREATE INDEX IF NOT EXISTS idx_points_award ON points(award_id);
		`)
		if err != nil {
			return fmt.Errorf("failed to create points table: %w", err)
		}

		fmt.Println("Points table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping points table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS points CASCADE;`); err != nil {
			return fmt.Errorf("failed to drop points table: %w", err)
		}
		return nil
	})
}
