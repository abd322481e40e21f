package analysis

import (
	"fmt"

	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/mathutil"
	"github.com/hatchend/feasibility/pkg/metric"
	"go.uber.org/zap"
)

// Recompute runs a model's full evaluation chain for one parameter set.
type Recompute[P, S any] func(P) (S, error)

// Transform derives a new parameter set from an existing one. Parameter sets
// are passed by value so a transform never mutates its input.
type Transform[P any] func(P) P

// Headline is implemented by summaries that expose the figures a sweep
// records: the profit (or EBITDA) and its margin.
type Headline interface {
	Headline() (profit float64, margin metric.Ratio)
}

// Axis describes one swept input: the inclusive range, the base value it is
// centred on and how to substitute a value into a parameter set.
type Axis[P any] struct {
	Name  string
	Unit  string
	Low   float64
	High  float64
	Base  float64
	Apply func(P, float64) P
}

// Row is one point of a sensitivity curve.
type Row[S any] struct {
	Value   float64      `json:"value"`
	Profit  float64      `json:"profit"`
	Margin  metric.Ratio `json:"margin"`
	Summary S            `json:"-"`
}

// Curve is the response of profit and margin to one swept input, in
// ascending order of the swept value.
type Curve[S any] struct {
	Name string   `json:"name"`
	Unit string   `json:"unit"`
	Base float64  `json:"base"`
	Rows []Row[S] `json:"rows"`
}

// Swing returns the spread between the highest and lowest profit on the curve.
func (c Curve[S]) Swing() float64 {
	if len(c.Rows) == 0 {
		return 0
	}
	lo, hi := c.Rows[0].Profit, c.Rows[0].Profit
	for _, r := range c.Rows[1:] {
		lo = mathutil.Min(lo, r.Profit)
		hi = mathutil.Max(hi, r.Profit)
	}
	return hi - lo
}

// Sweep evaluates the model at evenly spaced points across the axis range,
// holding every other input fixed. Each point is an independent full
// recomputation.
func Sweep[P any, S Headline](logger *zap.Logger, base P, axis Axis[P], recompute Recompute[P, S]) (Curve[S], error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if axis.Apply == nil {
		return Curve[S]{}, fmt.Errorf("sweep %s: no apply function", axis.Name)
	}
	if axis.High < axis.Low {
		return Curve[S]{}, fmt.Errorf("sweep %s: high %v below low %v", axis.Name, axis.High, axis.Low)
	}

	values := mathutil.Linspace(axis.Low, axis.High, constants.SweepPoints, axis.Base)
	curve := Curve[S]{Name: axis.Name, Unit: axis.Unit, Base: axis.Base, Rows: make([]Row[S], 0, len(values))}
	for _, v := range values {
		summary, err := recompute(axis.Apply(base, v))
		if err != nil {
			return Curve[S]{}, fmt.Errorf("sweep %s at %v: %w", axis.Name, v, err)
		}
		profit, margin := summary.Headline()
		curve.Rows = append(curve.Rows, Row[S]{Value: v, Profit: profit, Margin: margin, Summary: summary})
	}

	logger.Debug("sensitivity sweep complete",
		zap.String("op", "analysis.Sweep"),
		zap.String("axis", axis.Name),
		zap.Float64("low", axis.Low),
		zap.Float64("high", axis.High),
		zap.Float64("swing", curve.Swing()),
	)
	return curve, nil
}

// SweepAll runs Sweep for every axis in order.
func SweepAll[P any, S Headline](logger *zap.Logger, base P, axes []Axis[P], recompute Recompute[P, S]) ([]Curve[S], error) {
	curves := make([]Curve[S], 0, len(axes))
	for _, axis := range axes {
		curve, err := Sweep(logger, base, axis, recompute)
		if err != nil {
			return nil, err
		}
		curves = append(curves, curve)
	}
	return curves, nil
}

// Multiplicative returns an axis spanning lowFactor to highFactor times base.
// A negative base flips the products, so the endpoints are ordered.
func Multiplicative[P any](name, unit string, base, lowFactor, highFactor float64, apply func(P, float64) P) Axis[P] {
	a, b := base*lowFactor, base*highFactor
	return Axis[P]{Name: name, Unit: unit, Low: mathutil.Min(a, b), High: mathutil.Max(a, b), Base: base, Apply: apply}
}

// Additive returns an axis spanning base-below to base+above, with the lower
// end clamped at floor. A base already below floor is its own lower end.
func Additive[P any](name, unit string, base, below, above, floor float64, apply func(P, float64) P) Axis[P] {
	low := mathutil.Max(mathutil.Min(floor, base), base-below)
	return Axis[P]{Name: name, Unit: unit, Low: low, High: base + above, Base: base, Apply: apply}
}
