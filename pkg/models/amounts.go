package models

import "math"

// ItemTotal computes an invoice line's total in cents:
// quantity * unitPrice - discount, rounded half-up to the nearest cent and
// clamped to a minimum of zero (a discount larger than the subtotal yields
// zero, never a negative line).
func ItemTotal(quantity float64, unitPriceCents, discountCents int64) int64 {
	total := roundHalfUp(quantity*float64(unitPriceCents)) - discountCents
	if total < 0 {
		return 0
	}
	return total
}

// CommissionAmount computes a commission in cents from a base amount and a
// percentage, rounded half-up. Callers must validate percent first via
// IsValidPercent; out-of-range input is computed as given.
func CommissionAmount(baseAmountCents int64, percent float64) int64 {
	return roundHalfUp(float64(baseAmountCents) * percent / 100)
}

// IsValidPercent reports whether p lies in the closed interval [0, 100].
func IsValidPercent(p float64) bool {
	return p >= 0 && p <= 100
}

// roundHalfUp rounds to the nearest integer with ties going away from zero,
// matching the backend's ROUND_HALF_UP on Decimal(12,2).
func roundHalfUp(v float64) int64 {
	return int64(math.Round(v))
}
