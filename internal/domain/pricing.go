package domain

import "fmt"

// AddOn is an optional per-booking charge (e.g. firewood bundle, late
// checkout). Prices are integer minor-currency units; no floating point
// enters any money computation.
type AddOn struct {
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// Quote is the amount breakdown for a stay.
type Quote struct {
	Nights      int   `json:"nights"`
	BaseCents   int64 `json:"base_cents"`
	AddOnCents  int64 `json:"addon_cents"`
	TotalCents  int64 `json:"total_cents"`
}

// ComputeQuote prices a stay: nights × nightly rate plus the sum of add-on
// line totals, all in integer cents.
// Returns ErrValidation for nights < 1, a negative rate, or malformed add-ons.
func ComputeQuote(r StayRange, nightlyRateCents int64, addOns []AddOn) (Quote, error) {
	nights := r.Nights()
	if nights < 1 {
		return Quote{}, fmt.Errorf("%w: stay must be at least one night", ErrValidation)
	}
	if nightlyRateCents < 0 {
		return Quote{}, fmt.Errorf("%w: nightly rate must not be negative", ErrValidation)
	}

	q := Quote{
		Nights:    nights,
		BaseCents: int64(nights) * nightlyRateCents,
	}

	for _, a := range addOns {
		if a.Name == "" {
			return Quote{}, fmt.Errorf("%w: add-on name is required", ErrValidation)
		}
		if a.UnitPriceCents < 0 {
			return Quote{}, fmt.Errorf("%w: add-on %q price must not be negative", ErrValidation, a.Name)
		}
		if a.Quantity < 1 {
			return Quote{}, fmt.Errorf("%w: add-on %q quantity must be at least 1", ErrValidation, a.Name)
		}
		q.AddOnCents += a.UnitPriceCents * int64(a.Quantity)
	}

	q.TotalCents = q.BaseCents + q.AddOnCents
	return q, nil
}
