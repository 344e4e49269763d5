package scoringhandlers

import (
	"context"
	"log/slog"

	competitionevents "github.com/Black-And-White-Club/fitcomp/pkg/events/competition"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// ScoringHandlers implements the Handlers interface.
type ScoringHandlers struct {
	queue  Enqueuer
	logger *slog.Logger
	tracer trace.Tracer
}

// NewScoringHandlers creates a new ScoringHandlers instance.
func NewScoringHandlers(queue Enqueuer, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &ScoringHandlers{
		queue:  queue,
		logger: logger,
		tracer: tracer,
	}
}

// HandleGoalsChanged queues a recompute of every member's workouts.
func (h *ScoringHandlers) HandleGoalsChanged(ctx context.Context, payload *competitionevents.GoalsChangedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoringHandlers.HandleGoalsChanged")
	defer span.End()

	h.logger.InfoContext(ctx, "Goals changed, scheduling recompute",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("competition_id", payload.CompetitionID),
		attr.Int("goals", len(payload.GoalIDs)),
	)
	if err := h.queue.EnqueueCompetitionRecompute(ctx, payload.CompetitionID, nil, revision(ctx)); err != nil {
		return nil, err
	}
	return nil, nil
}

// HandleMembershipChanged queues a recompute of a new member's workouts.
// Team moves do not change points, only how they are grouped.
func (h *ScoringHandlers) HandleMembershipChanged(ctx context.Context, payload *competitionevents.MembershipChangedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoringHandlers.HandleMembershipChanged")
	defer span.End()

	if payload.TeamID != nil {
		return nil, nil
	}
	err := h.queue.EnqueueCompetitionRecompute(ctx, payload.CompetitionID, []uuid.UUID{payload.UserID}, revision(ctx))
	if err != nil {
		return nil, err
	}
	return nil, nil
}

// revision keys recompute jobs on the change that caused them. Redeliveries
// keep their correlation id.
func revision(ctx context.Context) string {
	id, _ := ctx.Value(attr.CorrelationIDKey).(string)
	return id
}
