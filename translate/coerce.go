package translate

import (
	"math"
	"strconv"
)

/*
 * Convert a raw literal into its Go value: integer first,
 * then float, everything else stays a string.
 *
 * Quotes are already stripped by the scanner, so the ladder is
 * quote-blind: "25" and 25 both come out as the integer 25
 */
func CoerceValue(raw string) interface{} {
	if number, err := strconv.Atoi(raw); err == nil {
		return number
	}

	// Words like "Inf" or "NaN" parse as floats, but have no JSON
	// representation, keep them as strings
	if number, err := strconv.ParseFloat(raw, 64); err == nil &&
		!math.IsInf(number, 0) && !math.IsNaN(number) {
		return number
	}

	return raw
}
