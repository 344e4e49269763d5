package leaderboardservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	leaderboarddb "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/clock"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultCacheTTL is used when Options.CacheTTL is zero.
const DefaultCacheTTL = 30 * time.Second

// Options tunes the leaderboard service.
type Options struct {
	// Location is the zone calendar days are taken in.
	Location *time.Location
	// CacheTTL bounds how long computed stats are served. Negative disables the cache.
	CacheTTL time.Duration
	Clock    clock.Clock
}

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo         leaderboarddb.Repository
	competitions CompetitionLookup
	users        UserLookup
	logger       *slog.Logger
	metrics      metrics.StatsMetrics
	tracer       trace.Tracer
	clock        clock.Clock
	loc          *time.Location
	cache        *statsCache
}

var _ Service = (*LeaderboardService)(nil)

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	competitions CompetitionLookup,
	users UserLookup,
	logger *slog.Logger,
	m metrics.StatsMetrics,
	tracer trace.Tracer,
	opts Options,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &LeaderboardService{
		repo:         repo,
		competitions: competitions,
		users:        users,
		logger:       logger,
		metrics:      m,
		tracer:       tracer,
		clock:        opts.Clock,
		loc:          opts.Location,
		cache:        newStatsCache(opts.CacheTTL, opts.Clock),
	}
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
	s *LeaderboardService,
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

	s.metrics.RecordOperationAttempt(ctx, operationName, "LeaderboardService")
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "LeaderboardService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
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
		s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
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

	s.metrics.RecordOperationSuccess(ctx, operationName, "LeaderboardService")
	return result, nil
}
