package domain

import "github.com/google/uuid"

// UnitAvailability is the per-unit result of an availability query.
// The report is advisory: a true Available can be invalidated by a
// concurrent write, which is why booking creation re-validates inside its
// own transaction. Conflicts carries redacted ranges only — no guest data.
type UnitAvailability struct {
	UnitID           uuid.UUID       `json:"unit_id"`
	Available        bool            `json:"available"`
	ConflictingCount int             `json:"conflicting_count"`
	Conflicts        []ConflictRange `json:"conflicts"`
}
