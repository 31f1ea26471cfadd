package postgresengine

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/librarylab/lending-go/core"
)

// SQLSTATE 23505: unique_violation.
const uniqueViolationCode = "23505"

// isUniqueViolation detects a unique constraint violation from both
// supported drivers (pgx and lib/pq).
func isUniqueViolation(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == uniqueViolationCode
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}

	return false
}

// classifyStorageError wraps an unexpected driver error as Internal.
// Context cancellation and deadline errors stay visible unchanged so
// callers can distinguish an aborted request from a broken collaborator.
func classifyStorageError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return core.WrapInternal(err)
}
