package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/campstead/booking-api/internal/domain"
)

// availabilityRequest is the JSON body for POST /availability.
// POST rather than GET so multi-unit queries don't fight URL length limits.
type availabilityRequest struct {
	UnitIDs  []uuid.UUID        `json:"unit_ids" validate:"required,min=1"`
	CheckIn  openapi_types.Date `json:"check_in" validate:"required"`
	CheckOut openapi_types.Date `json:"check_out" validate:"required"`
}

type unitAvailabilityResponse struct {
	UnitID           uuid.UUID              `json:"unit_id"`
	Available        bool                   `json:"available"`
	ConflictingCount int                    `json:"conflicting_count"`
	Conflicts        []domain.ConflictRange `json:"conflicts,omitempty"`
}

type availabilityResponse struct {
	CheckIn  string                     `json:"check_in"`
	CheckOut string                     `json:"check_out"`
	Units    []unitAvailabilityResponse `json:"units"`
}

// CheckAvailability handles POST /availability.
func (s *Server) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeValidatorError(w, err)
		return
	}

	results, err := s.availability.Check(r.Context(), req.UnitIDs, req.CheckIn.Time, req.CheckOut.Time)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	units := make([]unitAvailabilityResponse, 0, len(results))
	for _, ua := range results {
		units = append(units, unitAvailabilityResponse{
			UnitID:           ua.UnitID,
			Available:        ua.Available,
			ConflictingCount: ua.ConflictingCount,
			Conflicts:        ua.Conflicts,
		})
	}

	writeJSON(w, http.StatusOK, availabilityResponse{
		CheckIn:  req.CheckIn.Time.Format("2006-01-02"),
		CheckOut: req.CheckOut.Time.Format("2006-01-02"),
		Units:    units,
	})
}
