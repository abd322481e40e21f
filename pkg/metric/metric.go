// Package metric holds the derived-value types that can be undefined: ratios
// whose denominator is zero and payback periods that never pay back.
package metric

import (
	"encoding/json"
	"fmt"
	"math"
)

// Ratio is a percentage (0-100 scale) that is explicitly undefined when its
// denominator is zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// Undefined is the ratio produced by a zero denominator.
var Undefined = Ratio{}

// Percent returns 100*numerator/denominator, or Undefined when the
// denominator is zero or the result is not finite.
func Percent(numerator, denominator float64) Ratio {
	if denominator == 0 {
		return Undefined
	}
	v := 100 * numerator / denominator
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return Ratio{Value: v, Defined: true}
}

// Quotient returns numerator/denominator as a defined value, or Undefined
// when the denominator is zero or the result is not finite.
func Quotient(numerator, denominator float64) Ratio {
	r := Percent(numerator, denominator)
	if !r.Defined {
		return r
	}
	return Ratio{Value: numerator / denominator, Defined: true}
}

// Of wraps a plain value as a defined ratio.
func Of(v float64) Ratio {
	return Ratio{Value: v, Defined: true}
}

// Div returns the ratio divided by a positive divisor, propagating Undefined.
func (r Ratio) Div(divisor float64) Ratio {
	if !r.Defined || divisor == 0 {
		return Undefined
	}
	return Ratio{Value: r.Value / divisor, Defined: true}
}

// Sub returns the point difference r-other, undefined when either side is.
func (r Ratio) Sub(other Ratio) Ratio {
	if !r.Defined || !other.Defined {
		return Undefined
	}
	return Ratio{Value: r.Value - other.Value, Defined: true}
}

// OrZero returns the value, or zero when undefined. Intended for charting
// collaborators only.
func (r Ratio) OrZero() float64 {
	if !r.Defined {
		return 0
	}
	return r.Value
}

// String renders the ratio with one decimal place, or N/A.
func (r Ratio) String() string {
	if !r.Defined {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", r.Value)
}

// MarshalJSON renders undefined ratios as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number or null.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("ratio: %w", err)
	}
	*r = Of(v)
	return nil
}

// Payback is a payback period in months. Infinite marks an investment that
// never pays back because year-one earnings are not positive.
type Payback struct {
	Months   float64
	Infinite bool
}

// Never is the payback of an investment with non-positive earnings.
var Never = Payback{Infinite: true}

// PaybackMonths returns investment/(annualEarnings/12), or Never when
// annualEarnings is not positive.
func PaybackMonths(investment, annualEarnings float64) Payback {
	if annualEarnings <= 0 {
		return Never
	}
	return Payback{Months: investment / (annualEarnings / 12)}
}

// Sub returns the month difference p-other; undefined if either is infinite.
func (p Payback) Sub(other Payback) Ratio {
	if p.Infinite || other.Infinite {
		return Undefined
	}
	return Of(p.Months - other.Months)
}

// String renders the payback with one decimal place, or "never".
func (p Payback) String() string {
	if p.Infinite {
		return "never"
	}
	return fmt.Sprintf("%.1f months", p.Months)
}

// MarshalJSON renders infinite payback as the string "infinite".
func (p Payback) MarshalJSON() ([]byte, error) {
	if p.Infinite {
		return json.Marshal("infinite")
	}
	return json.Marshal(p.Months)
}

// UnmarshalJSON accepts a number or the string "infinite".
func (p *Payback) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "infinite" {
			return fmt.Errorf("payback: unexpected value %q", s)
		}
		*p = Never
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("payback: %w", err)
	}
	*p = Payback{Months: v}
	return nil
}
