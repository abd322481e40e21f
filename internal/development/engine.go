package development

import (
	"fmt"
	"time"

	"github.com/hatchend/feasibility/internal/analysis"
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/mathutil"
	"github.com/hatchend/feasibility/pkg/metric"
	"go.uber.org/zap"
)

// Output is everything derived from one parameter set.
type Output struct {
	Parameters  Parameters                             `json:"parameters"`
	Warnings    []string                               `json:"warnings,omitempty"`
	Revenue     Revenue                                `json:"revenue"`
	Costs       Costs                                  `json:"costs"`
	Summary     Summary                                `json:"summary"`
	Curves      Curves                                 `json:"curves"`
	Cashflow    Cashflow                               `json:"cashflow"`
	Sensitivity []analysis.Curve[Summary]              `json:"sensitivity"`
	Scenarios   []analysis.Result[Parameters, Summary] `json:"scenarios"`
	Schedule    Schedule                               `json:"schedule"`
}

// Engine evaluates development appraisals.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Recompute runs the revenue, cost and profitability chain for one
// parameter set. Sensitivity sweeps and scenarios call it for every point.
func Recompute(p Parameters) (Summary, error) {
	rev := ComputeRevenue(p)
	costs := ComputeCosts(p, rev)
	return ComputeProfitability(p, costs, rev), nil
}

// Evaluate validates the parameters and derives the full output, dating the
// schedule from the current month.
func (e *Engine) Evaluate(p Parameters) (*Output, error) {
	return e.EvaluateAt(p, time.Now())
}

// EvaluateAt is Evaluate with an injectable project start date.
func (e *Engine) EvaluateAt(p Parameters, start time.Time) (*Output, error) {
	warnings, err := p.Validate()
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		e.logger.Warn("development parameter warning",
			zap.String("op", "development.Evaluate"),
			zap.String("warning", w),
		)
	}

	rev := ComputeRevenue(p)
	costs := ComputeCosts(p, rev)
	summary := ComputeProfitability(p, costs, rev)

	e.logger.Debug("development costs computed",
		zap.String("op", "development.Evaluate"),
		zap.Float64("acquisition", costs.Acquisition.Total),
		zap.Float64("construction", costs.Construction.Total),
		zap.Float64("finance", costs.Finance.Total),
		zap.Float64("total", costs.Total()),
		zap.String("basis", string(rev.Basis)),
		zap.Float64("gdv", rev.GDV),
	)
	if costs.Total() < 0 {
		e.logger.Warn("negative total development cost",
			zap.String("op", "development.Evaluate"),
			zap.Float64("total", costs.Total()),
		)
	}
	if !summary.MarginOnCost.Defined {
		e.logger.Warn("margin on cost undefined",
			zap.String("op", "development.Evaluate"),
		)
	}

	curves, err := PhasingCurves(p.DurationMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to build phasing curves: %w", err)
	}
	cashflow, err := PhaseCashflow(p.DurationMonths, costs, rev, p)
	if err != nil {
		return nil, fmt.Errorf("failed to phase cash flow: %w", err)
	}

	sensitivity, err := analysis.SweepAll(e.logger, p, SensitivityAxes(p), Recompute)
	if err != nil {
		return nil, fmt.Errorf("failed to run sensitivity: %w", err)
	}

	scenarios, err := analysis.RunScenarios(e.logger, p, Scenarios(), ScenarioMetrics(), Recompute)
	if err != nil {
		return nil, fmt.Errorf("failed to run scenarios: %w", err)
	}

	e.logger.Info("development appraisal evaluated",
		zap.String("op", "development.Evaluate"),
		zap.Float64("gdv", summary.GDV),
		zap.Float64("totalCost", summary.TotalCost),
		zap.Float64("profit", summary.Profit),
		zap.String("marginOnCost", summary.MarginOnCost.String()),
	)

	return &Output{
		Parameters:  p,
		Warnings:    warnings,
		Revenue:     rev,
		Costs:       costs,
		Summary:     summary,
		Curves:      curves,
		Cashflow:    cashflow,
		Sensitivity: sensitivity,
		Scenarios:   scenarios,
		Schedule:    BuildSchedule(p.DurationMonths, start),
	}, nil
}

// Sensitivity axis names.
const (
	AxisSalesPrice       = "Sales Price"
	AxisConstructionCost = "Construction Cost"
	AxisInterestRate     = "Interest Rate"
)

// SensitivityAxes returns the swept inputs: sales price and construction
// cost from 80% to 120% of base, and the interest rate two points either
// side of base with a 0.5% floor.
func SensitivityAxes(p Parameters) []analysis.Axis[Parameters] {
	return []analysis.Axis[Parameters]{
		analysis.Multiplicative(AxisSalesPrice, "£/sq ft", p.SalesPricePerSqft, 0.8, 1.2,
			func(p Parameters, v float64) Parameters { p.SalesPricePerSqft = v; return p }),
		analysis.Multiplicative(AxisConstructionCost, "£/sq ft", p.ConstructionCostPerSqft, 0.8, 1.2,
			func(p Parameters, v float64) Parameters { p.ConstructionCostPerSqft = v; return p }),
		analysis.Additive(AxisInterestRate, "%", p.InterestRatePct, 2, 2, minimumInterestRatePct,
			func(p Parameters, v float64) Parameters { p.InterestRatePct = v; return p }),
	}
}

const (
	minimumInterestRatePct = 0.5
	minimumDurationMonths  = 12
)

// Scenarios returns the named parameter transforms.
func Scenarios() []analysis.Scenario[Parameters] {
	return []analysis.Scenario[Parameters]{
		{Name: constants.ScenarioBase},
		{Name: constants.ScenarioOptimistic, Transform: func(p Parameters) Parameters {
			p.SalesPricePerSqft *= 1.1
			p.ConstructionCostPerSqft *= 0.9
			p.InterestRatePct = mathutil.Max(p.InterestRatePct-1, minimumInterestRatePct)
			p.DurationMonths = max(p.DurationMonths-3, minimumDurationMonths)
			return p
		}},
		{Name: constants.ScenarioPessimistic, Transform: func(p Parameters) Parameters {
			p.SalesPricePerSqft *= 0.9
			p.ConstructionCostPerSqft *= 1.15
			p.InterestRatePct += 1.5
			p.DurationMonths += 6
			return p
		}},
	}
}

// ScenarioMetrics lists the figures compared against the base case.
// Currency figures change by percent, percentages by points.
func ScenarioMetrics() []analysis.Metric[Summary] {
	return []analysis.Metric[Summary]{
		{Name: "GDV", Kind: analysis.DeltaRatio, Value: func(s Summary) metric.Ratio { return metric.Of(s.GDV) }},
		{Name: "Total Cost", Kind: analysis.DeltaRatio, Value: func(s Summary) metric.Ratio { return metric.Of(s.TotalCost) }},
		{Name: "Profit", Kind: analysis.DeltaRatio, Value: func(s Summary) metric.Ratio { return metric.Of(s.Profit) }},
		{Name: "Profit on Cost", Kind: analysis.DeltaPoints, Value: func(s Summary) metric.Ratio { return s.MarginOnCost }},
		{Name: "Profit on GDV", Kind: analysis.DeltaPoints, Value: func(s Summary) metric.Ratio { return s.MarginOnGDV }},
		{Name: "ROE", Kind: analysis.DeltaPoints, Value: func(s Summary) metric.Ratio { return s.ROE }},
		{Name: "Duration", Kind: analysis.DeltaMonths, Value: func(s Summary) metric.Ratio { return metric.Of(float64(s.DurationMonths)) }},
	}
}
