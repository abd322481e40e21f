package mathutil

import (
	"math"

	"github.com/hatchend/feasibility/pkg/constants"
)

// Sum adds values in slice order so repeated evaluations round identically.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Linspace returns n evenly spaced values from low to high inclusive. When
// pin lies on the grid (within a relative tolerance) the grid point is
// replaced by pin exactly, so a sweep through its base value reproduces the
// base evaluation bit for bit.
func Linspace(low, high float64, n int, pin float64) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{low}
	}

	step := (high - low) / float64(n-1)
	values := make([]float64, n)
	for i := range values {
		switch i {
		case 0:
			values[i] = low
		case n - 1:
			values[i] = high
		default:
			values[i] = low + step*float64(i)
		}
		if nearlyEqual(values[i], pin) {
			values[i] = pin
		}
	}
	return values
}

func nearlyEqual(a, b float64) bool {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return true
	}
	return math.Abs(a-b) <= constants.RatioTolerance*scale
}
