// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/hatchend/feasibility/pkg/constants"
)

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ApplyPercentage applies a percentage expressed on the 0-100 scale to a value.
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// Grow applies one step of percentage growth to a value.
func Grow(value, percentage float64) float64 {
	return value * (1 + percentage/constants.PercentageMultiplier)
}
