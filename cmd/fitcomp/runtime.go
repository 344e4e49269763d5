package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Black-And-White-Club/fitcomp/app"
	"github.com/Black-And-White-Club/fitcomp/app/modules/competition"
	"github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard"
	"github.com/Black-And-White-Club/fitcomp/app/modules/scoring"
	"github.com/Black-And-White-Club/fitcomp/app/modules/user"
	"github.com/Black-And-White-Club/fitcomp/app/modules/workout"
	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/config"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

// runtime is the module graph of a one-shot command. It has no watermill
// router and runs recomputation inline unless opened with a queue.
type runtime struct {
	cfg         *config.Config
	loc         *time.Location
	db          *bun.DB
	bus         *eventbus.Bus
	users       *user.Module
	competition *competition.Module
	scoring     *scoring.Module
	workouts    *workout.Module
	leaderboard *leaderboard.Module
}

type runtimeOptions struct {
	// queue opens a River client for inserting jobs. Its workers are not
	// started; the serving process runs them.
	queue bool
}

func openRuntime(c *cli.Context, opts runtimeOptions) (*runtime, error) {
	ctx := c.Context

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Scoring.Location()
	if err != nil {
		return nil, err
	}

	obs := observability.New(observability.Config{
		ServiceName: "fitcomp-cli",
		Environment: cfg.Observability.Environment,
		LogLevel:    cfg.Observability.LogLevel,
	})

	rt := &runtime{cfg: cfg, loc: loc}
	rt.db = app.OpenDB(cfg.Postgres.DSN)
	if err := rt.db.PingContext(ctx); err != nil {
		rt.db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	rt.bus = eventbus.NewInMemory(obs.Provider.Logger)

	if err := rt.build(ctx, obs, opts); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) build(ctx context.Context, obs observability.Observability, opts runtimeOptions) (err error) {
	if rt.users, err = user.NewUserModule(ctx, obs, rt.db); err != nil {
		return err
	}
	if rt.competition, err = competition.NewCompetitionModule(ctx, obs, rt.bus, rt.db); err != nil {
		return err
	}
	scoringOpts := scoring.Options{Location: rt.loc, Concurrency: rt.cfg.Scoring.RecomputeConcurrency}
	if opts.queue {
		scoringOpts.QueueDSN = rt.cfg.Postgres.DSN
		scoringOpts.MaxWorkers = rt.cfg.Queue.MaxWorkers
	}
	rt.scoring, err = scoring.NewScoringModule(ctx, obs, rt.bus, nil, rt.db,
		rt.competition.Repository,
		workoutdb.NewRepository(rt.db),
		scoringOpts)
	if err != nil {
		return err
	}
	rt.workouts, err = workout.NewWorkoutModule(ctx, obs, rt.bus, nil, rt.db,
		rt.users.Repository, rt.scoring.ScoringService)
	if err != nil {
		return err
	}
	rt.leaderboard, err = leaderboard.NewLeaderboardModule(ctx, obs, rt.bus, nil, nil, rt.db,
		rt.competition.Repository, rt.users.Repository,
		leaderboard.Options{Location: rt.loc, CacheTTL: -1})
	return err
}

func (rt *runtime) Close() {
	if rt.scoring != nil {
		if err := rt.scoring.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close scoring module: %v\n", err)
		}
	}
	if rt.bus != nil {
		rt.bus.Close()
	}
	if rt.db != nil {
		rt.db.Close()
	}
}

// withRuntime opens the module graph for the duration of fn. An "async"
// flag set on the command opens the scoring queue as well.
func withRuntime(fn func(c *cli.Context, rt *runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := openRuntime(c, runtimeOptions{queue: c.Bool("async")})
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(c, rt)
	}
}
