package utils

import (
	"math"
)

// Round2 rounds a monetary amount to 2 decimal places using round-half-away-
// from-zero semantics on cents (multiply by 100, round to nearest integer,
// divide by 100). All fare math in the service goes through this so amounts
// are reproducible across platforms.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
