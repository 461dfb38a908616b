// Package repo contains all database access logic for the booking API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campstead/booking-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Postgres error codes the repo layer translates into domain errors.
const (
	pgExclusionViolation = "23P01" // a racing writer committed an overlapping booking first
	pgUniqueViolation    = "23505"
	pgSerializationFail  = "40001"
	pgDeadlockDetected   = "40P01"
	pgLockNotAvailable   = "55P03"
	pgQueryCanceled      = "57014" // statement_timeout or context cancellation
)

// translateErr maps low-level pgx failures onto the domain error taxonomy.
// Serialization failures, deadlocks, and timeouts all become ErrTxAborted:
// the transaction left no partial state, so the whole call is retryable.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrTxAborted
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFail, pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled:
			return domain.ErrTxAborted
		}
	}
	return err
}

// isPgCode reports whether err is a Postgres error with the given SQLSTATE.
func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
