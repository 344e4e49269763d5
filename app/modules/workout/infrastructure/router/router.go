package workoutrouter

import (
	"context"
	"log/slog"

	workouthandlers "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/handlers"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// WorkoutRouter handles Watermill handler registration for workout events.
type WorkoutRouter struct {
	logger   *slog.Logger
	router   *message.Router
	eventBus eventbus.EventBus
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
}

// NewWorkoutRouter creates a new WorkoutRouter.
func NewWorkoutRouter(
	logger *slog.Logger,
	router *message.Router,
	eventBus eventbus.EventBus,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *WorkoutRouter {
	return &WorkoutRouter{
		logger:   logger,
		router:   router,
		eventBus: eventBus,
		metrics:  m,
		tracer:   tracer,
	}
}

// Configure sets up the router with handlers.
func (r *WorkoutRouter) Configure(_ context.Context, handlers workouthandlers.Handlers) error {
	r.logger.Info("Registering workout module handlers",
		slog.String("sync_upserted_subject", workoutevents.WorkoutSyncUpsertedV1),
		slog.String("sync_deleted_subject", workoutevents.WorkoutSyncDeletedV1),
	)

	registerHandler(r, workoutevents.WorkoutSyncUpsertedV1, handlers.HandleSyncUpserted)
	registerHandler(r, workoutevents.WorkoutSyncDeletedV1, handlers.HandleSyncDeleted)
	return nil
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	r *WorkoutRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "workout." + topic

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
