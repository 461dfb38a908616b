package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/campstead/booking-api/internal/domain"
)

// CustomerRepo defines the persistence operations for customer identities.
// Identity is keyed by email, stored lowercased for case-insensitive matching.
type CustomerRepo interface {
	// Upsert atomically inserts a guest identity for the email, or returns the
	// existing identity if the email is already taken — including identities
	// with a non-guest role, which callers must check. The full name of the
	// first creator is preserved on conflict. This is a single conditional
	// insert-or-fetch, not a read-then-write, so two concurrent requests with
	// the same brand-new email resolve to exactly one row.
	Upsert(ctx context.Context, fullName, email string) (domain.Customer, error)

	// GetByEmail retrieves an identity by email (case-insensitive).
	// Returns domain.ErrNotFound if no identity with that email exists.
	GetByEmail(ctx context.Context, email string) (domain.Customer, error)
}

// pgCustomerRepo is the Postgres implementation of CustomerRepo.
type pgCustomerRepo struct {
	db db
}

// NewCustomerRepo constructs a CustomerRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCustomerRepo(db db) CustomerRepo {
	return &pgCustomerRepo{db: db}
}

// Upsert inserts a guest identity or returns the existing row on email conflict.
// The DO UPDATE SET trick forces the RETURNING clause to fire even when the
// conflict handler skips the insert — without it, RETURNING returns nothing
// on DO NOTHING conflicts. The update writes back the existing email, so an
// already-registered identity (whatever its role) comes back untouched.
func (r *pgCustomerRepo) Upsert(ctx context.Context, fullName, email string) (domain.Customer, error) {
	const q = `
		INSERT INTO customers (full_name, email, role)
		VALUES (@full_name, @email, 'GUEST')
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, full_name, email, role, created_at, updated_at`

	args := pgx.NamedArgs{
		"full_name": fullName,
		"email":     normalizeEmail(email),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCustomer(row)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("repo.CustomerRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgCustomerRepo) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	const q = `
		SELECT id, full_name, email, role, created_at, updated_at
		FROM customers
		WHERE email = @email`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": normalizeEmail(email)})
	result, err := scanCustomer(row)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("repo.CustomerRepo.GetByEmail: %w", err)
	}
	return result, nil
}

// normalizeEmail lowercases and trims an email so the unique index on
// customers.email behaves case-insensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// scanCustomer maps a single database row into a domain.Customer.
func scanCustomer(s scanner) (domain.Customer, error) {
	var (
		c    domain.Customer
		id   pgtype.UUID
		role string
	)

	err := s.Scan(&id, &c.FullName, &c.Email, &role, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, domain.ErrNotFound
		}
		return domain.Customer{}, translateErr(err)
	}

	c.ID = uuid.UUID(id.Bytes)
	c.Role = domain.CustomerRole(role)
	return c, nil
}
