package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/fitcomp/app/modules/competition"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard"
	"github.com/Black-And-White-Club/fitcomp/app/modules/scoring"
	"github.com/Black-And-White-Club/fitcomp/app/modules/user"
	"github.com/Black-And-White-Club/fitcomp/app/modules/workout"
	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/config"
	"github.com/Black-And-White-Club/fitcomp/pkg/clock"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability"
	"github.com/Black-And-White-Club/fitcomp/pkg/ratelimit"
	"github.com/ThreeDotsLabs/watermill"
	wmmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// App holds the process-wide infrastructure and every module.
type App struct {
	Config          *config.Config
	Observability   observability.Observability
	DB              *bun.DB
	EventBus        *eventbus.Bus
	WatermillRouter *message.Router
	Modules         Modules

	httpServer    *http.Server
	metricsServer *http.Server
	wg            sync.WaitGroup
}

// Modules groups the module instances in construction order.
type Modules struct {
	User        *user.Module
	Competition *competition.Module
	Scoring     *scoring.Module
	Workout     *workout.Module
	Leaderboard *leaderboard.Module
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.New(observability.Config{
		ServiceName: "fitcomp",
		Environment: cfg.Observability.Environment,
		LogLevel:    cfg.Observability.LogLevel,
	})
	logger := obs.Provider.Logger

	loc, err := cfg.Scoring.Location()
	if err != nil {
		return nil, err
	}

	db := OpenDB(cfg.Postgres.DSN)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bus, err := eventbus.NewNATS(eventbus.Config{
		URL:              cfg.NATS.URL,
		NKeySeed:         cfg.NATS.NKeySeed,
		QueueGroup:       cfg.NATS.QueueGroup,
		SubscribersCount: cfg.NATS.SubscribersCount,
	}, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		bus.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}
	if obs.Registry.Prometheus != nil {
		b := wmmetrics.NewPrometheusMetricsBuilder(obs.Registry.Prometheus, "fitcomp", "watermill")
		b.AddPrometheusRouterMetrics(router)
	}

	app := &App{
		Config:          cfg,
		Observability:   obs,
		DB:              db,
		EventBus:        bus,
		WatermillRouter: router,
	}

	httpRouter := newHTTPRouter(cfg.HTTP, obs)
	if err := app.initModules(ctx, router, httpRouter, loc); err != nil {
		app.Close()
		return nil, err
	}
	mountSyncBudget(httpRouter, ratelimit.NewRegistry(ratelimit.Limits{
		Per15Min: cfg.RateLimit.Per15Min,
		PerDay:   cfg.RateLimit.PerDay,
	}, clock.Real{}), logger)

	app.httpServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           httpRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if cfg.Observability.MetricsAddress != "" {
		app.metricsServer = newMetricsServer(cfg.Observability.MetricsAddress, obs)
	}

	return app, nil
}

func (app *App) initModules(ctx context.Context, router *message.Router, httpRouter chi.Router, loc *time.Location) error {
	obs := app.Observability
	cfg := app.Config

	userModule, err := user.NewUserModule(ctx, obs, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize user module: %w", err)
	}
	app.Modules.User = userModule

	competitionModule, err := competition.NewCompetitionModule(ctx, obs, app.EventBus, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize competition module: %w", err)
	}
	app.Modules.Competition = competitionModule

	scoringModule, err := scoring.NewScoringModule(ctx, obs, app.EventBus, router, app.DB,
		competitiondb.NewRepository(app.DB),
		workoutdb.NewRepository(app.DB),
		scoring.Options{
			Location:    loc,
			Concurrency: cfg.Scoring.RecomputeConcurrency,
			QueueDSN:    cfg.Postgres.DSN,
			MaxWorkers:  cfg.Queue.MaxWorkers,
		})
	if err != nil {
		return fmt.Errorf("failed to initialize scoring module: %w", err)
	}
	app.Modules.Scoring = scoringModule

	workoutModule, err := workout.NewWorkoutModule(ctx, obs, app.EventBus, router, app.DB,
		userModule.Repository, scoringModule.ScoringService)
	if err != nil {
		return fmt.Errorf("failed to initialize workout module: %w", err)
	}
	app.Modules.Workout = workoutModule

	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, obs, app.EventBus, router, httpRouter, app.DB,
		competitionModule.Repository, userModule.Repository,
		leaderboard.Options{Location: loc, CacheTTL: cfg.Stats.CacheTTL})
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}
	app.Modules.Leaderboard = leaderboardModule

	return nil
}

// OpenDB opens a bun handle over pgdriver.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Run starts the module goroutines, the watermill router and the HTTP
// listeners, and blocks until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Provider.Logger

	app.wg.Add(2)
	go app.Modules.Scoring.Run(ctx, &app.wg)
	go app.Modules.Workout.Run(ctx, &app.wg)

	errCh := make(chan error, 3)
	go func() {
		if err := app.WatermillRouter.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
		}
	}()

	app.serve(app.httpServer, "http", errCh)
	if app.metricsServer != nil {
		app.serve(app.metricsServer, "metrics", errCh)
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown requested")
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the listeners, the router, every module and the connections.
func (app *App) Close() error {
	logger := app.Observability.Provider.Logger

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, srv := range []*http.Server{app.httpServer, app.metricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down HTTP server", "addr", srv.Addr, "error", err)
		}
	}

	if app.WatermillRouter != nil {
		if err := app.WatermillRouter.Close(); err != nil {
			logger.Error("Failed to close watermill router", "error", err)
		}
	}

	closers := []interface{ Close() error }{}
	if app.Modules.Leaderboard != nil {
		closers = append(closers, app.Modules.Leaderboard)
	}
	if app.Modules.Workout != nil {
		closers = append(closers, app.Modules.Workout)
	}
	if app.Modules.Scoring != nil {
		closers = append(closers, app.Modules.Scoring)
	}
	if app.Modules.Competition != nil {
		closers = append(closers, app.Modules.Competition)
	}
	if app.Modules.User != nil {
		closers = append(closers, app.Modules.User)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close module", "error", err)
		}
	}
	app.wg.Wait()

	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	logger.Info("Application shut down gracefully")
	return nil
}
