// Package dberrors classifies Postgres failures that callers handle by retrying.
package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// ErrConcurrentModification is returned when two transactions raced on the
// same rows and the loser was aborted by Postgres.
var ErrConcurrentModification = errors.New("concurrent modification")

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// SQLState returns the SQLSTATE of err, or "" when err is not a Postgres error.
func SQLState(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	return ""
}

// IsConcurrentModification reports whether err is, or wraps, a failure that
// succeeds when the whole transaction is run again.
func IsConcurrentModification(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConcurrentModification) {
		return true
	}
	switch SQLState(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
		return true
	}
	return false
}

// Classify maps a retryable Postgres failure to ErrConcurrentModification and
// leaves every other error untouched.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrConcurrentModification) {
		return err
	}
	if IsConcurrentModification(err) {
		return errors.Join(ErrConcurrentModification, err)
	}
	return err
}
