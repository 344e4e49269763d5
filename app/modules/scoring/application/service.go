package scoringservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	scoringdb "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/dberrors"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	scoringevents "github.com/Black-And-White-Club/fitcomp/pkg/events/scoring"
	"github.com/Black-And-White-Club/fitcomp/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Options tunes the scoring service.
type Options struct {
	// Location is the zone workout calendar dates are taken in.
	Location *time.Location
	// Concurrency bounds parallel reconciliations in bulk recomputes.
	Concurrency int
}

// ScoringService implements the Service interface.
type ScoringService struct {
	repo         scoringdb.Repository
	competitions CompetitionLookup
	workouts     WorkoutLookup
	publisher    message.Publisher
	logger       *slog.Logger
	metrics      metrics.ScoringMetrics
	tracer       trace.Tracer
	db           *bun.DB
	loc          *time.Location
	concurrency  int
}

var _ Service = (*ScoringService)(nil)

// NewScoringService creates a new ScoringService.
func NewScoringService(
	repo scoringdb.Repository,
	competitions CompetitionLookup,
	workouts WorkoutLookup,
	publisher message.Publisher,
	logger *slog.Logger,
	m metrics.ScoringMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts Options,
) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	return &ScoringService{
		repo:         repo,
		competitions: competitions,
		workouts:     workouts,
		publisher:    publisher,
		logger:       logger,
		metrics:      m,
		tracer:       tracer,
		db:           db,
		loc:          opts.Location,
		concurrency:  opts.Concurrency,
	}
}

// publish announces a committed reconciliation on the global topic and once
// per touched competition.
func (s *ScoringService) publish(ctx context.Context, rec reconciliation) {
	if s.publisher == nil || rec.changes() == 0 {
		return
	}
	correlationID, _ := ctx.Value(attr.CorrelationIDKey).(string)
	payload := rec.payload()

	msg, err := handlerwrapper.NewMessage(correlationID, handlerwrapper.Result{
		Topic:   scoringevents.PointsReconciledV1,
		Payload: payload,
	})
	if err == nil {
		err = s.publisher.Publish(scoringevents.PointsReconciledV1, msg)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish points reconciled event",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("workout_id", rec.workout.ID),
			attr.Error(err),
		)
	}
	for _, competitionID := range payload.CompetitionIDs {
		msg, err := handlerwrapper.NewMessage(correlationID, handlerwrapper.Result{
			Topic:   scoringevents.PointsReconciledScopedV1,
			Payload: payload,
		})
		if err == nil {
			err = eventbus.PublishWithCompetitionScope(s.publisher, scoringevents.PointsReconciledScopedV1, competitionID, msg)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to publish competition scoped points event",
				attr.ExtractCorrelationID(ctx),
				attr.UUID("competition_id", competitionID),
				attr.Error(err),
			)
		}
	}
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ScoringService,
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

	s.metrics.RecordOperationAttempt(ctx, operationName, "ScoringService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "ScoringService", time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "ScoringService")
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
		s.metrics.RecordOperationFailure(ctx, operationName, "ScoringService")
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

	s.metrics.RecordOperationSuccess(ctx, operationName, "ScoringService")
	return result, nil
}

// runInTx runs fn in a new transaction, or directly when no database is configured.
func runInTx[S any, F any](
	s *ScoringService,
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

// runInTxWithRetry runs fn in its own transaction and runs it once more when
// the first attempt lost a race.
func runInTxWithRetry[S any, F any](
	s *ScoringService,
	ctx context.Context,
	event string,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	result, err := runInTx(s, ctx, fn)
	if dberrors.IsConcurrentModification(err) {
		s.metrics.RecordConflictRetry(ctx, event)
		s.logger.WarnContext(ctx, "Retrying reconciliation after concurrent modification",
			attr.ExtractCorrelationID(ctx),
			attr.String("event", event),
			attr.Error(err),
		)
		result, err = runInTx(s, ctx, fn)
	}
	return result, dberrors.Classify(err)
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
