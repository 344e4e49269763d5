package competitionservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CompetitionService implements the Service interface.
type CompetitionService struct {
	repo      competitiondb.Repository
	publisher message.Publisher
	logger    *slog.Logger
	metrics   metrics.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

var _ Service = (*CompetitionService)(nil)

// NewCompetitionService creates a new CompetitionService.
func NewCompetitionService(
	repo competitiondb.Repository,
	publisher message.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *CompetitionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompetitionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		tracer:    tracer,
		db:        db,
	}
}

// publish emits events after commit. Failures are logged; the change is already durable.
func (s *CompetitionService) publish(ctx context.Context, events []handlerwrapper.Result) {
	if s.publisher == nil {
		return
	}
	correlationID, _ := ctx.Value(attr.CorrelationIDKey).(string)
	for _, ev := range events {
		msg, err := handlerwrapper.NewMessage(correlationID, ev)
		if err == nil {
			err = s.publisher.Publish(ev.Topic, msg)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to publish competition event",
				attr.ExtractCorrelationID(ctx),
				attr.String("topic", ev.Topic),
				attr.Error(err),
			)
		}
	}
}

// outcome is a committed value plus the events it produced.
type outcome[T any] struct {
	value  T
	events []handlerwrapper.Result
}

func unwrap[T any](result results.OperationResult[outcome[T], error], err error) (outcome[T], error) {
	if err != nil {
		return outcome[T]{}, err
	}
	if result.IsFailure() {
		return outcome[T]{}, *result.Failure
	}
	return *result.Success, nil
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *CompetitionService,
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
		s.metrics.RecordOperationAttempt(ctx, operationName, "CompetitionService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "CompetitionService", time.Since(startTime))
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
				s.metrics.RecordOperationFailure(ctx, operationName, "CompetitionService")
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
			s.metrics.RecordOperationFailure(ctx, operationName, "CompetitionService")
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

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "CompetitionService")
	}
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *CompetitionService,
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
