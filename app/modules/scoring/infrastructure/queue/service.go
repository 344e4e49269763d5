package scoringqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
)

// QueueName is the River queue scoring jobs run on.
const QueueName = "scoring"

// uniqueStates limits job deduplication to unfinished jobs; River's default
// set also includes completed ones.
var uniqueStates = []rivertype.JobState{
	rivertype.JobStateAvailable,
	rivertype.JobStatePending,
	rivertype.JobStateRetryable,
	rivertype.JobStateRunning,
	rivertype.JobStateScheduled,
}

// QueueService defines the contract for recompute job scheduling.
type QueueService interface {
	// EnqueueWorkoutRecompute queues a reconciliation of one workout.
	EnqueueWorkoutRecompute(ctx context.Context, workoutID uuid.UUID) error
	// EnqueueCompetitionRecompute queues a reconciliation of a competition,
	// limited to userIDs when given.
	EnqueueCompetitionRecompute(ctx context.Context, competitionID uuid.UUID, userIDs []uuid.UUID, revision string) error
	// HealthCheck verifies the queue service is healthy
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// inserter is the slice of the River client used to queue jobs.
type inserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Service handles recompute job scheduling using River.
type Service struct {
	client   *river.Client[pgx.Tx]
	inserter inserter
	pool     *pgxpool.Pool
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
}

// NewService creates a River client on its own pgx pool, since River does not
// run on database/sql.
func NewService(ctx context.Context, dsn string, maxWorkers int, recomputer Recomputer, logger *slog.Logger, m metrics.OperationMetrics) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_scoring_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", "river")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRecomputeWorkoutWorker(recomputer, ctxLogger))
	river.AddWorker(workers, NewRecomputeCompetitionWorker(recomputer, ctxLogger))

	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger: ctxLogger,
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", "river")
	m.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))
	ctxLogger.Info("Scoring queue service initialized successfully")

	return &Service{
		client:   client,
		inserter: client,
		pool:     pool,
		logger:   ctxLogger,
		metrics:  m,
	}, nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.Info("Scoring queue service started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("Scoring queue service stopped")
	return nil
}

func (s *Service) EnqueueWorkoutRecompute(ctx context.Context, workoutID uuid.UUID) error {
	return s.insert(ctx, "enqueue_workout_recompute", RecomputeWorkoutArgs{WorkoutID: workoutID})
}

func (s *Service) EnqueueCompetitionRecompute(ctx context.Context, competitionID uuid.UUID, userIDs []uuid.UUID, revision string) error {
	return s.insert(ctx, "enqueue_competition_recompute", RecomputeCompetitionArgs{
		CompetitionID: competitionID,
		UserIDs:       userIDs,
		Revision:      revision,
	})
}

func (s *Service) insert(ctx context.Context, operation string, args river.JobArgs) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, operation, "river")

	res, err := s.inserter.Insert(ctx, args, &river.InsertOpts{
		Queue:      QueueName,
		UniqueOpts: river.UniqueOpts{ByArgs: true, ByState: uniqueStates},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to enqueue job",
			attr.ExtractCorrelationID(ctx),
			attr.String("kind", args.Kind()),
			attr.Error(err),
		)
		s.metrics.RecordOperationFailure(ctx, operation, "river")
		return fmt.Errorf("failed to enqueue %s job: %w", args.Kind(), err)
	}

	s.metrics.RecordOperationSuccess(ctx, operation, "river")
	s.metrics.RecordOperationDuration(ctx, operation, "river", time.Since(start))
	s.logger.InfoContext(ctx, "Job enqueued",
		attr.ExtractCorrelationID(ctx),
		attr.String("kind", args.Kind()),
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// HealthCheck pings the pool River runs on.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
