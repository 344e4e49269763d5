package userdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for user persistence.
type Repository interface {
	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, db bun.IDB, username string) (*User, error)

	// ListByIDs returns the users that exist among ids.
	ListByIDs(ctx context.Context, db bun.IDB, ids []uuid.UUID) ([]User, error)

	// Upsert creates or updates a user.
	Upsert(ctx context.Context, db bun.IDB, user *User) error
}
