// Package amount validates and formats euro amounts for the Easy iDeal API.
// The provider expects amounts as strings with two decimals; arithmetic is
// done in cents to keep float drift out of the wire format.
package amount

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FromFloat converts a caller-supplied amount to cents. Amounts must be
// positive and must not carry sub-cent precision.
func FromFloat(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount must be a finite number")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	cents := math.Round(amount * 100)
	if math.Abs(amount*100-cents) > 1e-6 {
		return 0, fmt.Errorf("amount must have at most two decimal places")
	}
	return int64(cents), nil
}

// Parse converts a wire-format amount like "42.42" or "42" to cents.
func Parse(s string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(strings.TrimSpace(s), ".")
	if whole == "" {
		return 0, fmt.Errorf("amount is required")
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w < 0 {
		return 0, fmt.Errorf("amount must be numeric")
	}

	var f int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("amount must have at most two decimal places")
		}
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("amount must be numeric")
		}
		if len(frac) == 1 {
			f *= 10
		}
	}

	cents := w*100 + f
	if cents <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return cents, nil
}

// Format renders cents in the provider's two-decimal wire format.
func Format(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
