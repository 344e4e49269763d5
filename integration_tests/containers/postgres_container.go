//go:build integration

package containers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresDatabase = "fitcomp"
	postgresUser     = "fitcomp"
	postgresPassword = "fitcomp"
)

// postgresReady waits until the ledger database accepts queries through pgx,
// which is later than the log line the module waits for by default.
func postgresReady() wait.Strategy {
	return wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser, postgresPassword, host, port.Port(), postgresDatabase)
	}).WithStartupTimeout(45 * time.Second)
}

// SetupPostgresContainer starts Postgres and returns it with a DSN that
// pgdriver and river can both use.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pg, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUser),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(postgresReady()),
	)
	if err != nil {
		if pg != nil {
			terminate(ctx, pg)
		}
		return nil, "", fmt.Errorf("start postgres: %w", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate(ctx, pg)
		return nil, "", fmt.Errorf("postgres dsn: %w", err)
	}

	log.Printf("postgres ready for %s", postgresDatabase)
	return pg, dsn, nil
}

func terminate(ctx context.Context, c testcontainers.Container) {
	if err := c.Terminate(ctx); err != nil {
		log.Printf("terminate container: %v", err)
	}
}
