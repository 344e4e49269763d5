package leaderboardhandlers

import (
	"context"
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/application"
	scoringevents "github.com/Black-And-White-Club/fitcomp/pkg/events/scoring"
	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"go.opentelemetry.io/otel/trace"
)

// Handlers evicts cached stats when the ledger behind them changes.
type Handlers interface {
	HandlePointsReconciled(ctx context.Context, payload *scoringevents.PointsReconciledPayloadV1) ([]handlerwrapper.Result, error)
	HandleWorkoutChanged(ctx context.Context, payload *workoutevents.WorkoutLifecyclePayloadV1) ([]handlerwrapper.Result, error)
}

// LeaderboardHandlers implements the Handlers interface.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers instance.
func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandlePointsReconciled evicts the competitions named by a reconciliation.
func (h *LeaderboardHandlers) HandlePointsReconciled(ctx context.Context, payload *scoringevents.PointsReconciledPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandlePointsReconciled")
	defer span.End()

	h.service.InvalidateCompetitions(payload.CompetitionIDs...)
	h.logger.DebugContext(ctx, "Evicted stats after reconciliation",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("workout_id", payload.WorkoutID),
		attr.Int("competitions", len(payload.CompetitionIDs)),
	)
	return nil, nil
}

// HandleWorkoutChanged evicts every competition of the workout's owner.
// Points written inside a workout transaction are not announced separately.
func (h *LeaderboardHandlers) HandleWorkoutChanged(ctx context.Context, payload *workoutevents.WorkoutLifecyclePayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleWorkoutChanged")
	defer span.End()

	if err := h.service.InvalidateUser(ctx, payload.UserID); err != nil {
		return nil, err
	}
	return nil, nil
}
