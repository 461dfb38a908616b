package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campstead/booking-api/internal/domain"
)

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code plus a human-readable
// message. Conflict-class errors attach their payloads so callers never have
// to parse the message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// ConflictingCount and Conflicts are set for code "booking_conflict".
	ConflictingCount *int                   `json:"conflicting_count,omitempty"`
	Conflicts        []domain.ConflictRange `json:"conflicts,omitempty"`

	// CurrentStatus and TargetStatus are set for code "invalid_transition".
	CurrentStatus string `json:"current_status,omitempty"`
	TargetStatus  string `json:"target_status,omitempty"`
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}

// writeError writes a minimal code+message error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeDomainError maps a service-layer error onto the HTTP error contract:
// validation → 400, not found → 404, conflicts (booking, identity role,
// invalid transition) → 409, transaction aborts → 503, everything else → 500.
// A booking conflict is never presented as success and never downgraded to a
// generic error — its payload carries the conflicting count and redacted ranges.
func writeDomainError(w http.ResponseWriter, err error) {
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		n := len(ce.Conflicts)
		if n == 0 {
			// A ConflictError always means at least one booking holds the
			// range, even when the post-rollback detail read saw nothing.
			n = 1
		}
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code:             "booking_conflict",
			Message:          fmt.Sprintf("requested dates conflict with %d existing booking(s)", n),
			ConflictingCount: &n,
			Conflicts:        ce.Conflicts,
		}})
		return
	}

	var ite *domain.InvalidTransitionError
	if errors.As(err, &ite) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code:          "invalid_transition",
			Message:       ite.Error(),
			CurrentStatus: string(ite.From),
			TargetStatus:  string(ite.To),
		}})
		return
	}

	switch {
	case errors.Is(err, domain.ErrRoleConflict):
		writeError(w, http.StatusConflict, "identity_role_conflict", unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrTxAborted):
		// No partial state survives an aborted transaction; the caller may
		// retry the whole request.
		writeError(w, http.StatusServiceUnavailable, "transaction_aborted", "the booking transaction was aborted, please retry")
	default:
		slog.Error("unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// writeValidatorError converts go-playground/validator failures on a request
// DTO into a 400 with one message per failed field.
func writeValidatorError(w http.ResponseWriter, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	writeError(w, http.StatusBadRequest, "validation_error", strings.Join(msgs, "; "))
}

// fieldError converts a single validator.FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error:
// the internal operation prefix ("service.BookingService.Create: ") and the
// sentinel's own text are stripped, leaving the detail for the client.
// e.g. "service.BookingService.Create: validation error: guest name is required"
// → "guest name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "service.") || strings.HasPrefix(msg, "repo.") {
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
	}
	return strings.TrimPrefix(msg, "validation error: ")
}
