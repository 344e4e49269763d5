package leaderboard

import (
	"context"
	"fmt"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/infrastructure/handlers"
	leaderboardhttp "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/infrastructure/http"
	leaderboarddb "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/fitcomp/pkg/clock"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Options configures the leaderboard module.
type Options struct {
	Location *time.Location
	CacheTTL time.Duration
	Clock    clock.Clock
}

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	observability      observability.Observability
}

// NewLeaderboardModule creates and initializes the leaderboard module. The
// event router and HTTP router are optional.
func NewLeaderboardModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	db *bun.DB,
	competitions leaderboardservice.CompetitionLookup,
	users leaderboardservice.UserLookup,
	opts Options,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	service := leaderboardservice.NewLeaderboardService(
		leaderboarddb.NewRepository(db),
		competitions,
		users,
		logger,
		metrics.NewStatsMetrics(obs.Registry.Registerer()),
		tracer,
		leaderboardservice.Options{Location: opts.Location, CacheTTL: opts.CacheTTL, Clock: opts.Clock},
	)

	if router != nil {
		handlers := leaderboardhandlers.NewLeaderboardHandlers(service, logger, tracer)
		r := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus,
			metrics.NewOperationMetrics(obs.Registry.Registerer(), "leaderboard_handlers"), tracer)
		if err := r.Configure(ctx, handlers); err != nil {
			return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
		}
	}

	if httpRouter != nil {
		leaderboardhttp.NewHandlers(service, logger).Routes(httpRouter)
	}

	return &Module{
		LeaderboardService: service,
		observability:      obs,
	}, nil
}

// Close shuts down the leaderboard module.
func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("Leaderboard module stopped")
	return nil
}
