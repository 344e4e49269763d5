package leaderboardrouter

import (
	"context"
	"log/slog"

	leaderboardhandlers "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/infrastructure/handlers"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	scoringevents "github.com/Black-And-White-Club/fitcomp/pkg/events/scoring"
	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardRouter handles Watermill handler registration for the stats cache.
type LeaderboardRouter struct {
	logger   *slog.Logger
	router   *message.Router
	eventBus eventbus.EventBus
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
}

// NewLeaderboardRouter creates a new LeaderboardRouter.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	eventBus eventbus.EventBus,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *LeaderboardRouter {
	return &LeaderboardRouter{
		logger:   logger,
		router:   router,
		eventBus: eventBus,
		metrics:  m,
		tracer:   tracer,
	}
}

// Configure sets up the router with handlers.
func (r *LeaderboardRouter) Configure(_ context.Context, handlers leaderboardhandlers.Handlers) error {
	r.logger.Info("Registering leaderboard module handlers",
		slog.String("points_subject", scoringevents.PointsReconciledV1),
	)

	registerHandler(r, scoringevents.PointsReconciledV1, handlers.HandlePointsReconciled)
	for _, topic := range []string{
		workoutevents.WorkoutCreatedV1,
		workoutevents.WorkoutUpdatedV1,
		workoutevents.WorkoutDeletedV1,
	} {
		registerHandler(r, topic, handlers.HandleWorkoutChanged)
	}
	return nil
}

func registerHandler[T any](
	r *LeaderboardRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "leaderboard." + topic

	r.router.AddNoPublisherHandler(
		handlerName,
		topic,
		r.eventBus,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			r.logger,
			r.tracer,
			r.metrics,
			r.eventBus,
			handler,
		),
	)
}
