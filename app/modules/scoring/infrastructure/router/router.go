package scoringrouter

import (
	"context"
	"log/slog"

	scoringhandlers "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/handlers"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	competitionevents "github.com/Black-And-White-Club/fitcomp/pkg/events/competition"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// ScoringRouter handles Watermill handler registration for scoring.
type ScoringRouter struct {
	logger   *slog.Logger
	router   *message.Router
	eventBus eventbus.EventBus
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
}

// NewScoringRouter creates a new ScoringRouter.
func NewScoringRouter(
	logger *slog.Logger,
	router *message.Router,
	eventBus eventbus.EventBus,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *ScoringRouter {
	return &ScoringRouter{
		logger:   logger,
		router:   router,
		eventBus: eventBus,
		metrics:  m,
		tracer:   tracer,
	}
}

// Configure sets up the router with handlers.
func (r *ScoringRouter) Configure(_ context.Context, handlers scoringhandlers.Handlers) error {
	r.logger.Info("Registering scoring module handlers",
		slog.String("goals_changed_subject", competitionevents.GoalsChangedV1),
		slog.String("membership_changed_subject", competitionevents.MembershipChangedV1),
	)

	registerHandler(r, competitionevents.GoalsChangedV1, handlers.HandleGoalsChanged)
	registerHandler(r, competitionevents.MembershipChangedV1, handlers.HandleMembershipChanged)
	return nil
}

func registerHandler[T any](
	r *ScoringRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "scoring." + topic

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
