package workout

import (
	"context"
	"fmt"
	"sync"

	workoutservice "github.com/Black-And-White-Club/fitcomp/app/modules/workout/application"
	workouthandlers "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/handlers"
	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	workoutrouter "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/router"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the workout module.
type Module struct {
	WorkoutService workoutservice.Service
	Repository     workoutdb.Repository
	cancelFunc     context.CancelFunc
	observability  observability.Observability
}

// NewWorkoutModule creates and initializes a new workout module. trigger is
// the scoring module's recalculation trigger.
func NewWorkoutModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
	users workoutservice.UserLookup,
	trigger workoutservice.ScoringTrigger,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "workout.NewWorkoutModule initializing")

	repo := workoutdb.NewRepository(db)
	opMetrics := metrics.NewOperationMetrics(obs.Registry.Registerer(), "workout")

	service := workoutservice.NewWorkoutService(repo, users, trigger, eventBus, logger, opMetrics, tracer, db)

	if router != nil {
		handlers := workouthandlers.NewWorkoutHandlers(service, logger, tracer)
		r := workoutrouter.NewWorkoutRouter(logger, router, eventBus, metrics.NewOperationMetrics(obs.Registry.Registerer(), "workout_handlers"), tracer)
		if err := r.Configure(ctx, handlers); err != nil {
			return nil, fmt.Errorf("failed to configure workout router: %w", err)
		}
	}

	return &Module{
		WorkoutService: service,
		Repository:     repo,
		observability:  obs,
	}, nil
}

// Run starts the workout module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting workout module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Workout module goroutine stopped")
}

// Close shuts down the workout module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Provider.Logger.Info("Workout module stopped")
	return nil
}
