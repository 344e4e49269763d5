package competitionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating competition tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS competitions (
					id UUID PRIMARY KEY,
					owner_id UUID NOT NULL REFERENCES users(id),
					name VARCHAR(128) NOT NULL,
					start_date DATE NOT NULL,
					end_date DATE NOT NULL,
					has_teams BOOLEAN NOT NULL DEFAULT FALSE,
					join_code CHAR(6) NOT NULL UNIQUE,
					default_goal_cap NUMERIC(9,2) CHECK (default_goal_cap >= 0),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (end_date >= start_date)
				);

				CREATE TABLE IF NOT EXISTS competition_members (
					competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
					user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (competition_id, user_id)
				);
				CREATE INDEX IF NOT EXISTS idx_competition_members_user ON competition_members(user_id);
			`); err != nil {
				return fmt.Errorf("failed to create competitions tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS teams (
					id UUID PRIMARY KEY,
					competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
					name VARCHAR(128) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (competition_id, name)
				);

				CREATE TABLE IF NOT EXISTS team_members (
					team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
					user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
					PRIMARY KEY (team_id, user_id),
					UNIQUE (competition_id, user_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create team tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS goals (
					id UUID PRIMARY KEY,
					competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
					name VARCHAR(128) NOT NULL,
					sport_group VARCHAR(64) NOT NULL DEFAULT '',
					sport_types VARCHAR(64)[],
					metric VARCHAR(32) NOT NULL,
					points_per_unit NUMERIC(9,4) NOT NULL CHECK (points_per_unit >= 0),
					min_duration_minutes NUMERIC(9,2),
					min_distance_km NUMERIC(9,2),
					min_kcal NUMERIC(9,2),
					cap NUMERIC(9,2) CHECK (cap >= 0),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_goals_competition ON goals(competition_id);

				CREATE TABLE IF NOT EXISTS awards (
					id UUID PRIMARY KEY,
					competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
					name VARCHAR(128) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create goal tables: %w", err)
			}

			fmt.Println("Competition tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping competition tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS awards CASCADE;
			DROP TABLE IF EXISTS goals CASCADE;
			DROP TABLE IF EXISTS team_members CASCADE;
			DROP TABLE IF EXISTS teams CASCADE;
			DROP TABLE IF EXISTS competition_members CASCADE;
			DROP TABLE IF EXISTS competitions CASCADE;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop competition tables: %w", err)
		}
		return nil
	})
}
