package userservice

import (
	"context"

	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type FakeUserRepo struct {
	trace []string

	GetByIDFunc       func(ctx context.Context, db bun.IDB, id uuid.UUID) (*userdb.User, error)
	GetByUsernameFunc func(ctx context.Context, db bun.IDB, username string) (*userdb.User, error)
	ListByIDsFunc     func(ctx context.Context, db bun.IDB, ids []uuid.UUID) ([]userdb.User, error)
	UpsertFunc        func(ctx context.Context, db bun.IDB, user *userdb.User) error
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{trace: []string{}}
}

func (f *FakeUserRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeUserRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeUserRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*userdb.User, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepo) GetByUsername(ctx context.Context, db bun.IDB, username string) (*userdb.User, error) {
	f.record("GetByUsername")
	if f.GetByUsernameFunc != nil {
		return f.GetByUsernameFunc(ctx, db, username)
	}
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepo) ListByIDs(ctx context.Context, db bun.IDB, ids []uuid.UUID) ([]userdb.User, error) {
	f.record("ListByIDs")
	if f.ListByIDsFunc != nil {
		return f.ListByIDsFunc(ctx, db, ids)
	}
	return nil, nil
}

func (f *FakeUserRepo) Upsert(ctx context.Context, db bun.IDB, user *userdb.User) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, user)
	}
	return nil
}

var _ userdb.Repository = (*FakeUserRepo)(nil)
