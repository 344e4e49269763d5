package workoutservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	workoutdb "github.com/Black-And-White-Club/fitcomp/app/modules/workout/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/dberrors"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WorkoutService implements the Service interface.
type WorkoutService struct {
	repo      workoutdb.Repository
	users     UserLookup
	trigger   ScoringTrigger
	publisher message.Publisher
	logger    *slog.Logger
	metrics   metrics.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

var _ Service = (*WorkoutService)(nil)

// NewWorkoutService creates a new WorkoutService. publisher may be nil, in
// which case lifecycle events are not emitted.
func NewWorkoutService(
	repo workoutdb.Repository,
	users UserLookup,
	trigger ScoringTrigger,
	publisher message.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *WorkoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkoutService{
		repo:      repo,
		users:     users,
		trigger:   trigger,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		tracer:    tracer,
		db:        db,
	}
}

// publish emits a lifecycle event after commit. The workout is already
// durable, so a failed publish is logged and not returned.
func (s *WorkoutService) publish(ctx context.Context, m *mutation) {
	if s.publisher == nil || m == nil || m.topic == "" {
		return
	}
	msg, err := handlerwrapper.NewMessage(correlationID(ctx), handlerwrapper.Result{
		Topic:   m.topic,
		Payload: m.payload(),
	})
	if err == nil {
		err = s.publisher.Publish(m.topic, msg)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish workout lifecycle event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", m.topic),
			attr.UUID("workout_id", m.workout.ID),
			attr.Error(err),
		)
	}
}

func correlationID(ctx context.Context) string {
	if id, ok := ctx.Value(attr.CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	return *result.Success, nil
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *WorkoutService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, "WorkoutService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "WorkoutService", time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, "WorkoutService")
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, "WorkoutService")
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "WorkoutService")
	}
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *WorkoutService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// runInTxWithRetry runs fn in a transaction and runs it once more when the
// first attempt lost a race on the same rows.
func runInTxWithRetry[S any, F any](
	s *WorkoutService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	result, err := runInTx(s, ctx, fn)
	if dberrors.IsConcurrentModification(err) {
		s.logger.WarnContext(ctx, "Retrying workout transaction after concurrent modification",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
		result, err = runInTx(s, ctx, fn)
	}
	return result, dberrors.Classify(err)
}
