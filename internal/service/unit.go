package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campstead/booking-api/internal/domain"
	"github.com/campstead/booking-api/internal/repo"
)

// UnitService exposes read-only catalog lookups. Unit metadata editing is
// owned by the catalog subsystem and is deliberately absent here.
type UnitService struct {
	units repo.UnitRepo
}

// NewUnitService constructs a UnitService backed by the provided UnitRepo.
func NewUnitService(units repo.UnitRepo) *UnitService {
	return &UnitService{units: units}
}

// List returns all units ordered by name.
// Always returns a non-nil slice so callers can safely range over it.
func (s *UnitService) List(ctx context.Context) ([]domain.Unit, error) {
	units, err := s.units.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.UnitService.List: %w", err)
	}
	if units == nil {
		return []domain.Unit{}, nil
	}
	return units, nil
}

// GetByID returns a single unit by ID.
func (s *UnitService) GetByID(ctx context.Context, id uuid.UUID) (domain.Unit, error) {
	unit, err := s.units.GetByID(ctx, id)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("service.UnitService.GetByID: %w", err)
	}
	return unit, nil
}
