package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repos bundles one instance of every repo, all backed by the same db handle.
// Inside a transaction every repo in the bundle shares that transaction.
type Repos struct {
	Units     UnitRepo
	Customers CustomerRepo
	Bookings  BookingRepo
}

// NewRepos constructs a Repos bundle over the given db handle.
func NewRepos(db db) Repos {
	return Repos{
		Units:     NewUnitRepo(db),
		Customers: NewCustomerRepo(db),
		Bookings:  NewBookingRepo(db),
	}
}

// Txer runs a function inside one atomically committed transaction.
// The service layer depends on this interface, not on *pgxpool.Pool, so
// service tests can substitute a fake that hands out mock repos.
type Txer interface {
	// InTx begins a transaction, runs fn with transaction-scoped repos, and
	// commits. Any error from fn rolls the transaction back and is returned
	// unchanged, leaving zero partial state.
	InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// Store is the Postgres-backed Txer. It also hands out pool-backed repos for
// read paths that do not need a transaction.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store over the given connection pool. The pool is an
// injected dependency — there is no package-level singleton handle.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Repos returns pool-backed repos for non-transactional reads.
// These never take row locks and never block writers.
func (s *Store) Repos() Repos {
	return NewRepos(s.pool)
}

// InTx implements Txer with READ COMMITTED isolation. Correctness of the
// booking re-check relies on row-level locks (FOR UPDATE on the conflicting
// rows) plus the bookings exclusion constraint, not on a stronger isolation
// level, so concurrent writers only contend on truly overlapping rows.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("repo.Store.InTx: begin: %w", translateErr(err))
	}
	// Rollback after a successful commit is a harmless no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Store.InTx: commit: %w", translateErr(err))
	}
	return nil
}
