package userservice

import (
	"context"

	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines the user operations other modules depend on.
type Service interface {
	GetUser(ctx context.Context, id uuid.UUID) (*userdb.User, error)
	ListUsers(ctx context.Context, ids []uuid.UUID) ([]userdb.User, error)
	RegisterUser(ctx context.Context, id uuid.UUID, username string) (*userdb.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*userdb.User, error)
}

// ProfileUpdate holds the optional profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	ScalingKcal       *decimal.Decimal
	StravaAllowFollow *bool
	StravaAthleteID   *int64
}
