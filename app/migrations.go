package app

import (
	"context"
	"fmt"

	competitionmigrations "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories/migrations"
	scoringqueue "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/queue"
	scoringmigrations "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/repositories/migrations"
	usermigrations "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories/migrations"
	workoutmigrations "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator is the migrator of one module. Each module keeps its own
// bookkeeping tables so a rollback never crosses module boundaries.
type ModuleMigrator struct {
	Module   string
	Migrator *migrate.Migrator
}

// Migrators returns one migrator per module in foreign key order.
func Migrators(db *bun.DB) []ModuleMigrator {
	sets := []struct {
		module     string
		migrations *migrate.Migrations
	}{
		{"user", usermigrations.Migrations},
		{"competition", competitionmigrations.Migrations},
		{"workout", workoutmigrations.Migrations},
		{"scoring", scoringmigrations.Migrations},
	}

	migrators := make([]ModuleMigrator, 0, len(sets))
	for _, s := range sets {
		migrators = append(migrators, ModuleMigrator{
			Module: s.module,
			Migrator: migrate.NewMigrator(db, s.migrations,
				migrate.WithTableName("bun_migrations_"+s.module),
				migrate.WithLocksTableName("bun_migration_locks_"+s.module),
			),
		})
	}
	return migrators
}

// MigrateAll initializes and applies every module's migrations, then the
// River job tables.
func MigrateAll(ctx context.Context, db *bun.DB, dsn string) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", m.Module, err)
		}
		if _, err := m.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate %s: %w", m.Module, err)
		}
	}
	if _, err := scoringqueue.MigrateSchema(ctx, dsn); err != nil {
		return err
	}
	return nil
}
