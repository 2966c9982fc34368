// Package chart computes SVG geometry for the dashboard charts and renders
// them as standalone SVG documents.
//
// Every function in this package is pure: the same input yields the same
// geometry and the same path strings. Degenerate input (empty series, zero
// totals, equal values) produces defined fallback geometry instead of NaN.
package chart

import (
	"math"
	"strconv"
)

// num formats a coordinate with the shortest exact representation.
// Non-finite values collapse to 0 so they never reach a path string.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clampNonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
