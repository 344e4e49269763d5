package workouthandlers

import (
	"context"
	"errors"
	"log/slog"

	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	workoutservice "github.com/Black-And-White-Club/fitcomp/app/modules/workout/application"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	workoutevents "github.com/Black-And-White-Club/fitcomp/pkg/events/workout"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// WorkoutHandlers implements the Handlers interface.
type WorkoutHandlers struct {
	service workoutservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewWorkoutHandlers creates a new WorkoutHandlers instance.
func NewWorkoutHandlers(
	service workoutservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &WorkoutHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleSyncUpserted handles activities pushed by the sync collaborator.
// Activities that can never be stored are dropped so the message is not redelivered.
func (h *WorkoutHandlers) HandleSyncUpserted(ctx context.Context, payload *workoutevents.WorkoutSyncUpsertedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "WorkoutHandlers.HandleSyncUpserted")
	defer span.End()

	w, err := h.service.UpsertFromSync(ctx, *payload)
	if err != nil {
		if errors.Is(err, workoutdomain.ErrInvalidWorkout) || errors.Is(err, userdb.ErrNotFound) {
			h.logger.WarnContext(ctx, "Dropping unusable synced activity",
				slog.String("provider", payload.Provider),
				slog.Int64("external_id", payload.ExternalID),
				slog.String("error", err.Error()),
			)
			return nil, nil
		}
		return nil, err
	}

	h.logger.InfoContext(ctx, "Synced activity stored",
		slog.Int64("external_id", payload.ExternalID),
		slog.String("workout_id", w.ID.String()),
	)
	return nil, nil
}

// HandleSyncDeleted handles provider-side deletions.
func (h *WorkoutHandlers) HandleSyncDeleted(ctx context.Context, payload *workoutevents.WorkoutSyncDeletedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "WorkoutHandlers.HandleSyncDeleted")
	defer span.End()

	if err := h.service.DeleteFromSync(ctx, payload.ExternalID); err != nil {
		return nil, err
	}
	return nil, nil
}
