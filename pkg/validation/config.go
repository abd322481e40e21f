package validation

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonPositiveDomain is returned when a size, duration, yield or other
// strictly positive input is zero or negative.
var ErrNonPositiveDomain = errors.New("non-positive domain value")

// ErrNotFinite is returned when an input is NaN or infinite.
var ErrNotFinite = errors.New("non-finite value")

// Field names one numeric input for validation messages.
type Field struct {
	Name  string
	Value float64
}

// Checker accumulates boundary errors and non-fatal warnings for one
// parameter set.
type Checker struct {
	errs     []error
	warnings []string
}

// Positive requires every field to be finite and strictly greater than zero.
func (c *Checker) Positive(fields ...Field) {
	for _, f := range fields {
		if !c.finite(f) {
			continue
		}
		if f.Value <= 0 {
			c.errs = append(c.errs, fmt.Errorf("%s must be greater than zero, got %v: %w", f.Name, f.Value, ErrNonPositiveDomain))
		}
	}
}

// NonNegative warns when a field is negative. Negative inputs are allowed
// through since sensitivity extremes can legitimately produce them.
func (c *Checker) NonNegative(fields ...Field) {
	for _, f := range fields {
		if !c.finite(f) {
			continue
		}
		if f.Value < 0 {
			c.warnings = append(c.warnings, fmt.Sprintf("%s is negative (%v)", f.Name, f.Value))
		}
	}
}

// Percentage warns when a 0-100 field lies outside that range.
func (c *Checker) Percentage(fields ...Field) {
	for _, f := range fields {
		if !c.finite(f) {
			continue
		}
		if f.Value < 0 || f.Value > 100 {
			c.warnings = append(c.warnings, fmt.Sprintf("%s is outside 0-100 (%v)", f.Name, f.Value))
		}
	}
}

func (c *Checker) finite(f Field) bool {
	if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
		c.errs = append(c.errs, fmt.Errorf("%s: %w", f.Name, ErrNotFinite))
		return false
	}
	return true
}

// Err returns the joined boundary errors, or nil.
func (c *Checker) Err() error {
	return errors.Join(c.errs...)
}

// Warnings returns the non-fatal findings in the order they were made.
func (c *Checker) Warnings() []string {
	return c.warnings
}
