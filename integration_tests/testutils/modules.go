//go:build integration

package testutils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fitcomp/app/modules/competition"
	"github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard"
	"github.com/Black-And-White-Club/fitcomp/app/modules/scoring"
	"github.com/Black-And-White-Club/fitcomp/app/modules/user"
	"github.com/Black-And-White-Club/fitcomp/app/modules/workout"
	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Modules is the module graph wired the way the application wires it.
type Modules struct {
	Bus         *eventbus.Bus
	Router      *message.Router
	User        *user.Module
	Competition *competition.Module
	Scoring     *scoring.Module
	Workout     *workout.Module
	Leaderboard *leaderboard.Module
}

// ModuleOptions tweaks the graph per test.
type ModuleOptions struct {
	// UseNATS connects the bus to the NATS container instead of an in-process channel.
	UseNATS bool
	// UseQueue runs competition recomputes through River instead of inline.
	UseQueue bool
	// CacheTTL of the stats cache; negative disables caching.
	CacheTTL time.Duration
}

// StartModules builds every module, runs the watermill router and registers
// cleanup on t.
func StartModules(t *testing.T, env *TestEnvironment, opts ModuleOptions) *Modules {
	t.Helper()
	ctx, cancel := context.WithCancel(env.Ctx)
	obs := env.Observability()
	logger := obs.Provider.Logger

	var bus *eventbus.Bus
	if opts.UseNATS {
		var err error
		bus, err = eventbus.NewNATS(eventbus.Config{
			URL:        env.Config.NATS.URL,
			QueueGroup: env.Config.NATS.QueueGroup,
		}, logger)
		if err != nil {
			cancel()
			t.Fatalf("failed to create NATS event bus: %v", err)
		}
	} else {
		bus = eventbus.NewInMemory(logger)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 1 * time.Second}, watermill.NopLogger{})
	if err != nil {
		cancel()
		t.Fatalf("failed to create watermill router: %v", err)
	}

	m := &Modules{Bus: bus, Router: router}
	if m.User, err = user.NewUserModule(ctx, obs, env.DB); err != nil {
		t.Fatalf("user module: %v", err)
	}
	if m.Competition, err = competition.NewCompetitionModule(ctx, obs, bus, env.DB); err != nil {
		t.Fatalf("competition module: %v", err)
	}
	scoringOpts := scoring.Options{Concurrency: 4}
	if opts.UseQueue {
		scoringOpts.QueueDSN = env.Config.Postgres.DSN
		scoringOpts.MaxWorkers = 2
	}
	if m.Scoring, err = scoring.NewScoringModule(ctx, obs, bus, router, env.DB,
		m.Competition.Repository, workoutdb.NewRepository(env.DB), scoringOpts); err != nil {
		t.Fatalf("scoring module: %v", err)
	}
	if m.Workout, err = workout.NewWorkoutModule(ctx, obs, bus, router, env.DB,
		m.User.Repository, m.Scoring.ScoringService); err != nil {
		t.Fatalf("workout module: %v", err)
	}
	if m.Leaderboard, err = leaderboard.NewLeaderboardModule(ctx, obs, bus, router, nil, env.DB,
		m.Competition.Repository, m.User.Repository,
		leaderboard.Options{CacheTTL: opts.CacheTTL}); err != nil {
		t.Fatalf("leaderboard module: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go m.Scoring.Run(ctx, &wg)
	go m.Workout.Run(ctx, &wg)

	routerDone := make(chan struct{})
	go func() {
		defer close(routerDone)
		if err := router.Run(ctx); err != nil {
			t.Errorf("watermill router stopped with error: %v", err)
		}
	}()
	<-router.Running()

	t.Cleanup(func() {
		cancel()
		router.Close()
		<-routerDone
		m.Scoring.Close()
		m.Workout.Close()
		wg.Wait()
		bus.Close()
	})
	return m
}

// WaitFor polls cond until it holds or the timeout expires.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
