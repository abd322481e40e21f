package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/metric"
	"go.uber.org/zap"
)

type toyParams struct {
	Price float64
	Cost  float64
}

type toySummary struct {
	Revenue float64
	Cost    float64
	Profit  float64
	Margin  metric.Ratio
}

func (s toySummary) Headline() (float64, metric.Ratio) {
	return s.Profit, s.Margin
}

func toyRecompute(p toyParams) (toySummary, error) {
	if p.Price < 0 {
		return toySummary{}, errors.New("negative price")
	}
	revenue := p.Price * 10
	profit := revenue - p.Cost
	return toySummary{Revenue: revenue, Cost: p.Cost, Profit: profit, Margin: metric.Percent(profit, p.Cost)}, nil
}

func withPrice(p toyParams, v float64) toyParams {
	p.Price = v
	return p
}

func TestNewBreakdown(t *testing.T) {
	b := NewBreakdown(Line{"Land", 100}, Line{"Build", 250.5}, Line{"Fees", -10})
	if b.Total != 340.5 {
		t.Fatalf("expected total 340.5, got %v", b.Total)
	}
	if amount, ok := b.Amount("Build"); !ok || amount != 250.5 {
		t.Errorf("expected Build 250.5, got %v (%v)", amount, ok)
	}
	if _, ok := b.Amount("Missing"); ok {
		t.Errorf("expected missing line not found")
	}
	largest, smallest, ok := b.Largest()
	if !ok || largest.Name != "Build" || smallest.Name != "Fees" {
		t.Errorf("unexpected largest/smallest: %v %v", largest, smallest)
	}
}

func TestSweepMidpointReproducesBase(t *testing.T) {
	base := toyParams{Price: 123.45, Cost: 800}
	axis := Multiplicative("price", "£", base.Price, 0.8, 1.2, withPrice)

	curve, err := Sweep(zap.NewNop(), base, axis, toyRecompute)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(curve.Rows) != constants.SweepPoints {
		t.Fatalf("expected %d rows, got %d", constants.SweepPoints, len(curve.Rows))
	}

	want, _ := toyRecompute(base)
	mid := curve.Rows[len(curve.Rows)/2]
	if mid.Value != base.Price {
		t.Fatalf("expected midpoint %v, got %v", base.Price, mid.Value)
	}
	if mid.Summary != want {
		t.Errorf("expected midpoint summary %+v, got %+v", want, mid.Summary)
	}

	for i := 1; i < len(curve.Rows); i++ {
		if curve.Rows[i].Value <= curve.Rows[i-1].Value {
			t.Fatalf("rows not ascending at %d", i)
		}
	}
	if curve.Swing() <= 0 {
		t.Errorf("expected positive swing, got %v", curve.Swing())
	}
}

func TestSweepErrors(t *testing.T) {
	base := toyParams{Price: 10, Cost: 50}

	if _, err := Sweep(nil, base, Axis[toyParams]{Name: "broken"}, toyRecompute); err == nil {
		t.Errorf("expected error for axis without apply")
	}

	inverted := Axis[toyParams]{Name: "inverted", Low: 5, High: 1, Apply: withPrice}
	if _, err := Sweep(nil, base, inverted, toyRecompute); err == nil {
		t.Errorf("expected error for inverted range")
	}

	negative := Axis[toyParams]{Name: "price", Low: -2, High: 2, Base: 0, Apply: withPrice}
	if _, err := Sweep(nil, base, negative, toyRecompute); err == nil {
		t.Errorf("expected recompute error to propagate")
	}
}

func TestAdditiveFloor(t *testing.T) {
	axis := Additive("rate", "%", 1.5, 2, 2, 0.5, withPrice)
	if axis.Low != 0.5 || axis.High != 3.5 {
		t.Errorf("expected [0.5, 3.5], got [%v, %v]", axis.Low, axis.High)
	}
}

func withCost(p toyParams, v float64) toyParams {
	p.Cost = v
	return p
}

func TestAxisEndpointsOrdered(t *testing.T) {
	tests := []struct {
		name string
		axis Axis[toyParams]
		low  float64
		high float64
	}{
		{"Multiplicative negative base", Multiplicative("cost", "£", -100, 0.8, 1.2, withCost), -120, -80},
		{"Multiplicative positive base", Multiplicative("cost", "£", 100, 0.8, 1.2, withCost), 80, 120},
		{"Additive base below floor", Additive("cost", "%", -5, 2, 2, 0, withCost), -5, -3},
		{"Additive base near floor", Additive("cost", "%", 1, 2, 2, 0, withCost), 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !(tt.axis.Low <= tt.axis.Base && tt.axis.Base <= tt.axis.High) {
				t.Errorf("base %v outside [%v, %v]", tt.axis.Base, tt.axis.Low, tt.axis.High)
			}
			if !nearly(tt.axis.Low, tt.low) || !nearly(tt.axis.High, tt.high) {
				t.Errorf("expected [%v, %v], got [%v, %v]", tt.low, tt.high, tt.axis.Low, tt.axis.High)
			}

			curve, err := Sweep(zap.NewNop(), toyParams{Price: 10, Cost: tt.axis.Base}, tt.axis, toyRecompute)
			if err != nil {
				t.Fatalf("Sweep() error = %v", err)
			}
			if len(curve.Rows) != constants.SweepPoints {
				t.Errorf("expected %d rows, got %d", constants.SweepPoints, len(curve.Rows))
			}
		})
	}
}

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		kind    DeltaKind
		base    metric.Ratio
		value   metric.Ratio
		defined bool
		change  float64
	}{
		{"Ratio increase", DeltaRatio, metric.Of(200), metric.Of(250), true, 25},
		{"Ratio decrease", DeltaRatio, metric.Of(200), metric.Of(150), true, -25},
		{"Ratio zero base", DeltaRatio, metric.Of(0), metric.Of(150), false, 0},
		{"Points", DeltaPoints, metric.Of(15), metric.Of(18.5), true, 3.5},
		{"Points undefined", DeltaPoints, metric.Undefined, metric.Of(18.5), false, 0},
		{"Months", DeltaMonths, metric.Of(24), metric.Of(30), true, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compare("m", tt.kind, tt.base, tt.value)
			if d.Change.Defined != tt.defined {
				t.Fatalf("expected defined=%v, got %+v", tt.defined, d.Change)
			}
			if tt.defined && d.Change.Value != tt.change {
				t.Errorf("expected change %v, got %v", tt.change, d.Change.Value)
			}
		})
	}
}

func TestRunScenarios(t *testing.T) {
	base := toyParams{Price: 100, Cost: 800}
	scenarios := []Scenario[toyParams]{
		{Name: constants.ScenarioBase},
		{Name: constants.ScenarioOptimistic, Transform: func(p toyParams) toyParams { p.Price *= 1.1; return p }},
		{Name: constants.ScenarioPessimistic, Transform: func(p toyParams) toyParams { p.Price *= 0.9; return p }},
	}
	metrics := []Metric[toySummary]{
		{Name: "Profit", Kind: DeltaRatio, Value: func(s toySummary) metric.Ratio { return metric.Of(s.Profit) }},
		{Name: "Margin", Kind: DeltaPoints, Value: func(s toySummary) metric.Ratio { return s.Margin }},
	}

	results, err := RunScenarios(zap.NewNop(), base, scenarios, metrics, toyRecompute)
	if err != nil {
		t.Fatalf("RunScenarios() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Name != constants.ScenarioBase {
		t.Fatalf("expected base first, got %s", results[0].Name)
	}

	want, _ := toyRecompute(base)
	if results[0].Summary != want {
		t.Errorf("base summary %+v differs from direct evaluation %+v", results[0].Summary, want)
	}
	for _, d := range results[0].Deltas {
		if !d.Change.Defined || d.Change.Value != 0 {
			t.Errorf("expected zero base delta for %s, got %+v", d.Metric, d.Change)
		}
	}

	opt := Find(results, constants.ScenarioOptimistic)
	pes := Find(results, constants.ScenarioPessimistic)
	if opt == nil || pes == nil {
		t.Fatal("expected optimistic and pessimistic results")
	}
	if !(opt.Summary.Profit > want.Profit && want.Profit > pes.Summary.Profit) {
		t.Errorf("expected ordered profits, got %v %v %v", opt.Summary.Profit, want.Profit, pes.Summary.Profit)
	}
	if base.Price != 100 {
		t.Errorf("transform mutated the base parameters")
	}
	if Find(results, "Missing") != nil {
		t.Errorf("expected nil for unknown scenario")
	}
}
