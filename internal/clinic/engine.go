package clinic

import (
	"fmt"

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
	Investment  analysis.Breakdown                     `json:"initialInvestment"`
	Revenue     Revenue                                `json:"revenue"`
	Expenses    Expenses                               `json:"expenses"`
	Summary     Summary                                `json:"summary"`
	Sensitivity []analysis.Curve[Summary]              `json:"sensitivity"`
	Scenarios   []analysis.Result[Parameters, Summary] `json:"scenarios"`
}

// Engine evaluates clinic business plans.
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

// Recompute runs revenue, then expenses, then profitability for one
// parameter set. Revenue comes first because supplies and marketing are a
// share of it.
func Recompute(p Parameters) (Summary, error) {
	rev := ComputeRevenue(p)
	exp := ComputeExpenses(p, rev)
	return ComputeProfitability(p, ComputeInitialInvestment(p).Total, rev, exp), nil
}

// Evaluate validates the parameters and derives the full output.
func (e *Engine) Evaluate(p Parameters) (*Output, error) {
	warnings, err := p.Validate()
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		e.logger.Warn("clinic parameter warning",
			zap.String("op", "clinic.Evaluate"),
			zap.String("warning", w),
		)
	}

	investment := ComputeInitialInvestment(p)
	rev := ComputeRevenue(p)
	exp := ComputeExpenses(p, rev)
	summary := ComputeProfitability(p, investment.Total, rev, exp)

	for i, y := range summary.Years {
		e.logger.Debug("clinic year projected",
			zap.String("op", "clinic.Evaluate"),
			zap.Int("year", y.Year),
			zap.Float64("serviceRevenue", rev[i].Service),
			zap.Float64("membershipRevenue", rev[i].Membership),
			zap.Float64("expenses", y.Expenses),
			zap.Float64("ebitda", y.EBITDA),
		)
	}
	if summary.Payback.Infinite {
		e.logger.Warn("year one EBITDA is not positive, investment never pays back",
			zap.String("op", "clinic.Evaluate"),
			zap.Float64("ebitda", summary.Years[0].EBITDA),
		)
	}
	if !summary.BreakEven.MonthlyVisits.Defined {
		e.logger.Warn("average visit does not cover variable costs, break-even undefined",
			zap.String("op", "clinic.Evaluate"),
			zap.Float64("contributionMargin", summary.BreakEven.ContributionMargin),
		)
	}

	sensitivity, err := analysis.SweepAll(e.logger, p, SensitivityAxes(p), Recompute)
	if err != nil {
		return nil, fmt.Errorf("failed to run sensitivity: %w", err)
	}

	scenarios, err := analysis.RunScenarios(e.logger, p, Scenarios(), ScenarioMetrics(), Recompute)
	if err != nil {
		return nil, fmt.Errorf("failed to run scenarios: %w", err)
	}

	e.logger.Info("clinic business plan evaluated",
		zap.String("op", "clinic.Evaluate"),
		zap.Float64("initialInvestment", investment.Total),
		zap.Float64("year1Ebitda", summary.Years[0].EBITDA),
		zap.Float64("year3Ebitda", summary.Years[2].EBITDA),
		zap.String("payback", summary.Payback.String()),
	)

	return &Output{
		Parameters:  p,
		Warnings:    warnings,
		Investment:  investment,
		Revenue:     rev,
		Expenses:    exp,
		Summary:     summary,
		Sensitivity: sensitivity,
		Scenarios:   scenarios,
	}, nil
}

// Sensitivity axis names.
const (
	AxisPriceFactor       = "Price Factor"
	AxisUtilizationFactor = "Utilization Factor"
	AxisSupplies          = "Supplies Cost"
)

// SensitivityAxes returns the swept inputs: a factor on every service price
// from 0.8 to 1.2, a factor on every utilisation rate from 0.5 to 1.5, and
// the supplies share of revenue two points either side of base. Memberships
// are left untouched by both factors.
func SensitivityAxes(p Parameters) []analysis.Axis[Parameters] {
	return []analysis.Axis[Parameters]{
		analysis.Multiplicative(AxisPriceFactor, "x", 1, 0.8, 1.2, scalePrices),
		analysis.Multiplicative(AxisUtilizationFactor, "x", 1, 0.5, 1.5, scaleUtilization),
		analysis.Additive(AxisSupplies, "% of revenue", p.SuppliesPct, 2, 2, 0,
			func(p Parameters, v float64) Parameters { p.SuppliesPct = v; return p }),
	}
}

func scalePrices(p Parameters, f float64) Parameters {
	p.CryotherapyPrice *= f
	p.SaunaPrice *= f
	p.IVBasicPrice *= f
	p.IVPremiumPrice *= f
	p.FaceTreatmentPrice *= f
	return p
}

func scaleUtilization(p Parameters, f float64) Parameters {
	p.Year1StartUtilizationPct *= f
	p.Year1EndUtilizationPct *= f
	p.Year2StartUtilizationPct *= f
	p.Year2EndUtilizationPct *= f
	p.Year3UtilizationPct *= f
	return p
}

// Scenarios returns the named parameter transforms. Both move service prices
// and utilisation together and shift supplies by two points.
func Scenarios() []analysis.Scenario[Parameters] {
	return []analysis.Scenario[Parameters]{
		{Name: constants.ScenarioBase},
		{Name: constants.ScenarioOptimistic, Transform: func(p Parameters) Parameters {
			p = scaleUtilization(scalePrices(p, 1.1), 1.2)
			p.SuppliesPct = mathutil.Max(p.SuppliesPct-2, 0)
			return p
		}},
		{Name: constants.ScenarioPessimistic, Transform: func(p Parameters) Parameters {
			p = scaleUtilization(scalePrices(p, 0.9), 0.8)
			p.SuppliesPct += 2
			return p
		}},
	}
}

// ScenarioMetrics lists the figures compared against the base case.
func ScenarioMetrics() []analysis.Metric[Summary] {
	return []analysis.Metric[Summary]{
		{Name: "Year 1 Revenue", Kind: analysis.DeltaRatio, Value: func(s Summary) metric.Ratio { return metric.Of(s.Years[0].Revenue) }},
		{Name: "Year 1 EBITDA", Kind: analysis.DeltaRatio, Value: func(s Summary) metric.Ratio { return metric.Of(s.Years[0].EBITDA) }},
		{Name: "Year 1 EBITDA Margin", Kind: analysis.DeltaPoints, Value: func(s Summary) metric.Ratio { return s.Years[0].Margin }},
		{Name: "Year 3 Revenue", Kind: analysis.DeltaRatio, Value: func(s Summary) metric.Ratio { return metric.Of(s.Years[2].Revenue) }},
		{Name: "Year 3 EBITDA", Kind: analysis.DeltaRatio, Value: func(s Summary) metric.Ratio { return metric.Of(s.Years[2].EBITDA) }},
		{Name: "Year 3 EBITDA Margin", Kind: analysis.DeltaPoints, Value: func(s Summary) metric.Ratio { return s.Years[2].Margin }},
		{Name: "3-Year ROI", Kind: analysis.DeltaPoints, Value: func(s Summary) metric.Ratio { return s.Years[2].ROI }},
		{Name: "Daily Break-even Visits", Kind: analysis.DeltaRatio, Value: func(s Summary) metric.Ratio { return s.BreakEven.DailyVisits }},
		{Name: "Payback", Kind: analysis.DeltaMonths, Value: func(s Summary) metric.Ratio {
			if s.Payback.Infinite {
				return metric.Undefined
			}
			return metric.Of(s.Payback.Months)
		}},
	}
}
