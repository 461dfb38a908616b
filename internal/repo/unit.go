package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/campstead/booking-api/internal/domain"
)

// UnitRepo defines read-only access to the lodging-unit catalog.
// Units are owned by the catalog subsystem; the booking core never writes them.
type UnitRepo interface {
	// GetByID retrieves a single unit by its UUID primary key.
	// Returns domain.ErrNotFound if no unit with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Unit, error)

	// GetByIDs retrieves all units whose ID is in ids, in no particular order.
	// Missing IDs are simply absent from the result — callers decide whether
	// that is an error.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Unit, error)

	// List returns all units ordered by name.
	List(ctx context.Context) ([]domain.Unit, error)
}

// pgUnitRepo is the Postgres implementation of UnitRepo.
type pgUnitRepo struct {
	db db
}

// NewUnitRepo constructs a UnitRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewUnitRepo(db db) UnitRepo {
	return &pgUnitRepo{db: db}
}

const unitColumns = `id, name, nightly_rate_cents, max_guests, status, created_at, updated_at`

func (r *pgUnitRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Unit, error) {
	q := `SELECT ` + unitColumns + ` FROM units WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanUnit(row)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("repo.UnitRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUnitRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Unit, error) {
	q := `SELECT ` + unitColumns + ` FROM units WHERE id = ANY(@ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.UnitRepo.GetByIDs: %w", translateErr(err))
	}
	defer rows.Close()

	return collectUnits(rows, "repo.UnitRepo.GetByIDs")
}

func (r *pgUnitRepo) List(ctx context.Context) ([]domain.Unit, error) {
	q := `SELECT ` + unitColumns + ` FROM units ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.UnitRepo.List: %w", translateErr(err))
	}
	defer rows.Close()

	return collectUnits(rows, "repo.UnitRepo.List")
}

func collectUnits(rows pgx.Rows, op string) ([]domain.Unit, error) {
	units := []domain.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, translateErr(err))
	}
	return units, nil
}

// scanUnit maps a single database row into a domain.Unit.
func scanUnit(s scanner) (domain.Unit, error) {
	var (
		u      domain.Unit
		id     pgtype.UUID
		status string
	)

	err := s.Scan(&id, &u.Name, &u.NightlyRateCents, &u.MaxGuests, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Unit{}, domain.ErrNotFound
		}
		return domain.Unit{}, translateErr(err)
	}

	u.ID = uuid.UUID(id.Bytes)
	u.Status = domain.UnitStatus(status)
	return u, nil
}
