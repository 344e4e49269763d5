package competition

import (
	"context"

	competitionservice "github.com/Black-And-White-Club/fitcomp/app/modules/competition/application"
	competitiondb "github.com/Black-And-White-Club/fitcomp/app/modules/competition/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the competition module. It only produces events; the
// scoring and leaderboard modules consume them.
type Module struct {
	CompetitionService competitionservice.Service
	Repository         competitiondb.Repository
	observability      observability.Observability
}

// NewCompetitionModule creates and initializes a new competition module.
func NewCompetitionModule(
	ctx context.Context,
	obs observability.Observability,
	publisher message.Publisher,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "competition.NewCompetitionModule initializing")

	repo := competitiondb.NewRepository(db)
	service := competitionservice.NewCompetitionService(
		repo,
		publisher,
		logger,
		metrics.NewOperationMetrics(obs.Registry.Registerer(), "competition"),
		obs.Registry.Tracer,
		db,
	)

	return &Module{
		CompetitionService: service,
		Repository:         repo,
		observability:      obs,
	}, nil
}

// Close shuts down the competition module.
func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("Competition module stopped")
	return nil
}
