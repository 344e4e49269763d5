package user

import (
	"context"

	userservice "github.com/Black-And-White-Club/fitcomp/app/modules/user/application"
	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/uptrace/bun"
)

// Module represents the user module.
type Module struct {
	UserService   userservice.Service
	Repository    userdb.Repository
	observability observability.Observability
}

// NewUserModule creates and initializes a new user module.
func NewUserModule(ctx context.Context, obs observability.Observability, db *bun.DB) (*Module, error) {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "user.NewUserModule initializing")

	repo := userdb.NewRepository(db)
	service := userservice.NewUserService(
		repo,
		logger,
		metrics.NewOperationMetrics(obs.Registry.Registerer(), "user"),
		obs.Registry.Tracer,
		db,
	)

	return &Module{
		UserService:   service,
		Repository:    repo,
		observability: obs,
	}, nil
}

// Close shuts down the user module.
func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("User module stopped")
	return nil
}
