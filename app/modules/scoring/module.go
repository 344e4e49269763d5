package scoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	scoringservice "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/application"
	scoringhandlers "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/handlers"
	scoringqueue "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/queue"
	scoringdb "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/repositories"
	scoringrouter "github.com/Black-And-White-Club/fitcomp/app/modules/scoring/infrastructure/router"
	"github.com/Black-And-White-Club/fitcomp/pkg/eventbus"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Options configures the scoring module.
type Options struct {
	Location    *time.Location
	Concurrency int
	// QueueDSN enables the River recompute queue. When empty, recomputes
	// triggered by competition events run inline in the handler.
	QueueDSN   string
	MaxWorkers int
}

// Module represents the scoring module.
type Module struct {
	ScoringService scoringservice.Service
	Repository     scoringdb.Repository
	QueueService   scoringqueue.QueueService
	cancelFunc     context.CancelFunc
	observability  observability.Observability
}

// NewScoringModule creates and initializes a new scoring module. router may
// be nil for one-shot commands that only need the service.
func NewScoringModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
	competitions scoringservice.CompetitionLookup,
	workouts scoringservice.WorkoutLookup,
	opts Options,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "scoring.NewScoringModule initializing")

	var publisher message.Publisher
	if eventBus != nil {
		publisher = eventBus
	}

	repo := scoringdb.NewRepository(db)
	service := scoringservice.NewScoringService(
		repo,
		competitions,
		workouts,
		publisher,
		logger,
		metrics.NewScoringMetrics(obs.Registry.Registerer()),
		tracer,
		db,
		scoringservice.Options{Location: opts.Location, Concurrency: opts.Concurrency},
	)

	module := &Module{
		ScoringService: service,
		Repository:     repo,
		observability:  obs,
	}

	var enqueuer scoringhandlers.Enqueuer = scoringqueue.Inline{Recomputer: service}
	if opts.QueueDSN != "" {
		queue, err := scoringqueue.NewService(ctx, opts.QueueDSN, opts.MaxWorkers, service, logger,
			metrics.NewOperationMetrics(obs.Registry.Registerer(), "scoring_queue"))
		if err != nil {
			return nil, fmt.Errorf("failed to create scoring queue: %w", err)
		}
		module.QueueService = queue
		enqueuer = queue
	}

	if router != nil {
		handlers := scoringhandlers.NewScoringHandlers(enqueuer, logger, tracer)
		r := scoringrouter.NewScoringRouter(logger, router, eventBus,
			metrics.NewOperationMetrics(obs.Registry.Registerer(), "scoring_handlers"), tracer)
		if err := r.Configure(ctx, handlers); err != nil {
			return nil, fmt.Errorf("failed to configure scoring router: %w", err)
		}
	}

	return module, nil
}

// Run starts the scoring module and its queue.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting scoring module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.QueueService != nil {
		// Close stops the client gracefully; cancelling its start context would not.
		if err := m.QueueService.Start(context.WithoutCancel(ctx)); err != nil {
			logger.ErrorContext(ctx, "Failed to start scoring queue", "error", err)
			return
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Scoring module goroutine stopped")
}

// Close shuts down the scoring module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if m.QueueService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.QueueService.Stop(ctx); err != nil {
			return err
		}
	}
	m.observability.Provider.Logger.Info("Scoring module stopped")
	return nil
}
