package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/Black-And-White-Club/fitcomp/pkg/results"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	minScaling = decimal.NewFromFloat(0.5)
	maxScaling = decimal.NewFromInt(2)
)

// UserService implements the Service interface.
type UserService struct {
	repo    userdb.Repository
	logger  *slog.Logger
	metrics metrics.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

var _ Service = (*UserService)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	repo userdb.Repository,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		repo:    repo,
		logger:  logger,
		metrics: m,
		tracer:  tracer,
		db:      db,
	}
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*userdb.User, error) {
	result, err := withTelemetry(s, ctx, "GetUser", id.String(), func(ctx context.Context) (results.OperationResult[*userdb.User, error], error) {
		user, err := s.repo.GetByID(ctx, nil, id)
		if err != nil {
			if errors.Is(err, userdb.ErrNotFound) {
				return results.FailureResult[*userdb.User, error](err), nil
			}
			return results.OperationResult[*userdb.User, error]{}, err
		}
		return results.SuccessResult[*userdb.User, error](user), nil
	})
	return unwrap(result, err)
}

// ListUsers returns the existing users among ids, ordered by username.
func (s *UserService) ListUsers(ctx context.Context, ids []uuid.UUID) ([]userdb.User, error) {
	users, err := s.repo.ListByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

// RegisterUser creates a user with default profile settings, or renames an existing one.
func (s *UserService) RegisterUser(ctx context.Context, id uuid.UUID, username string) (*userdb.User, error) {
	username = strings.TrimSpace(username)

	result, err := withTelemetry(s, ctx, "RegisterUser", id.String(), func(ctx context.Context) (results.OperationResult[*userdb.User, error], error) {
		if n := len(username); n < 3 || n > 32 {
			return results.FailureResult[*userdb.User, error](ErrInvalidUsername), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*userdb.User, error], error) {
			user, err := s.repo.GetByID(ctx, db, id)
			switch {
			case errors.Is(err, userdb.ErrNotFound):
				user = &userdb.User{ID: id, ScalingKcal: decimal.NewFromInt(1)}
			case err != nil:
				return results.OperationResult[*userdb.User, error]{}, fmt.Errorf("failed to load user: %w", err)
			}
			user.Username = username
			if err := s.repo.Upsert(ctx, db, user); err != nil {
				return results.OperationResult[*userdb.User, error]{}, err
			}
			return results.SuccessResult[*userdb.User, error](user), nil
		})
	})
	return unwrap(result, err)
}

// UpdateProfile applies the non-nil fields of update.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*userdb.User, error) {
	result, err := withTelemetry(s, ctx, "UpdateProfile", id.String(), func(ctx context.Context) (results.OperationResult[*userdb.User, error], error) {
		if update.ScalingKcal != nil && (update.ScalingKcal.LessThan(minScaling) || update.ScalingKcal.GreaterThan(maxScaling)) {
			return results.FailureResult[*userdb.User, error](ErrInvalidScalingKcal), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*userdb.User, error], error) {
			user, err := s.repo.GetByID(ctx, db, id)
			if err != nil {
				if errors.Is(err, userdb.ErrNotFound) {
					return results.FailureResult[*userdb.User, error](err), nil
				}
				return results.OperationResult[*userdb.User, error]{}, fmt.Errorf("failed to load user: %w", err)
			}
			if update.ScalingKcal != nil {
				user.ScalingKcal = *update.ScalingKcal
			}
			if update.StravaAllowFollow != nil {
				user.StravaAllowFollow = *update.StravaAllowFollow
			}
			if update.StravaAthleteID != nil {
				user.StravaAthleteID = update.StravaAthleteID
			}
			if err := s.repo.Upsert(ctx, db, user); err != nil {
				return results.OperationResult[*userdb.User, error]{}, err
			}
			return results.SuccessResult[*userdb.User, error](user), nil
		})
	})
	return unwrap(result, err)
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
	s *UserService,
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
		s.metrics.RecordOperationAttempt(ctx, operationName, "UserService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "UserService", time.Since(startTime))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, "UserService")
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
			s.metrics.RecordOperationFailure(ctx, operationName, "UserService")
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

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "UserService")
	}
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *UserService,
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
