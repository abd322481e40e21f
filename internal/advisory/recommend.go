package advisory

import (
	"fmt"

	"github.com/hatchend/feasibility/internal/clinic"
	"github.com/hatchend/feasibility/internal/development"
	"github.com/hatchend/feasibility/pkg/format"
)

// Development thresholds.
const (
	targetMarginOnCost          = 15.0
	highConstructionCostPerSqft = 300.0
	highInterestRatePct         = 5.0
	lowLoanToCostPct            = 60.0
	longDurationMonths          = 24
	targetMarginOnGDV           = 12.0
)

// Clinic thresholds.
const (
	targetEBITDAMarginY1  = 20.0
	lowUtilizationPct     = 30.0
	highSuppliesPct       = 18.0
	longPaybackMonths     = 24.0
	capacityExpansionUtil = 70
)

// DevelopmentRecommendations flags the weak points of an appraisal. A sound
// appraisal gets general guidance instead.
func DevelopmentRecommendations(p development.Parameters, s development.Summary) []Insight {
	var out []Insight

	if s.MarginOnCost.Defined && s.MarginOnCost.Value < targetMarginOnCost {
		out = append(out, Insight{
			Level: LevelWarning, Icon: "📉", Title: "Profit Margin",
			Message: "Consider ways to increase profit margin, such as value engineering or negotiating better terms with contractors.",
			Value:   s.MarginOnCost.String(),
		})
	}
	if p.ConstructionCostPerSqft > highConstructionCostPerSqft {
		out = append(out, Insight{
			Level: LevelWarning, Icon: "🏗️", Title: "Construction Cost",
			Message: "Construction costs are relatively high. Consider reviewing specifications and exploring alternative construction methods.",
			Value:   format.Currency(p.ConstructionCostPerSqft) + "/sq ft",
		})
	}
	if p.InterestRatePct > highInterestRatePct {
		out = append(out, Insight{
			Level: LevelWarning, Icon: "🏦", Title: "Finance Cost",
			Message: "Interest rates are significant. Explore refinancing options or accelerating the development timeline to reduce finance costs.",
			Value:   fmt.Sprintf("%.2f%%", p.InterestRatePct),
		})
	}
	if p.LoanToCostPct < lowLoanToCostPct {
		out = append(out, Insight{
			Level: LevelInfo, Icon: "💡", Title: "Leverage",
			Message: "Consider increasing leverage to improve return on equity, if the project can support additional debt.",
			Value:   fmt.Sprintf("%.0f%%", p.LoanToCostPct),
		})
	}
	if p.DurationMonths > longDurationMonths {
		out = append(out, Insight{
			Level: LevelWarning, Icon: "⏳", Title: "Programme",
			Message: "Project timeline is extended. Look for opportunities to accelerate construction to reduce holding costs and improve IRR.",
			Value:   fmt.Sprintf("%d months", p.DurationMonths),
		})
	}
	if s.MarginOnGDV.Defined && s.MarginOnGDV.Value < targetMarginOnGDV {
		out = append(out, Insight{
			Level: LevelWarning, Icon: "📊", Title: "Profit on GDV",
			Message: "Profit on GDV is below industry benchmarks. Review sales/rental strategy to maximize revenue.",
			Value:   s.MarginOnGDV.String(),
		})
	}

	if len(out) > 0 {
		return out
	}
	return []Insight{
		{Level: LevelSuccess, Icon: "✅", Title: "Viability", Message: "The project appears financially sound based on current parameters."},
		{Level: LevelInfo, Icon: "💡", Title: "Cost Control", Message: "Continue to monitor construction costs and timeline to prevent overruns."},
		{Level: LevelInfo, Icon: "💡", Title: "Exit Strategy", Message: "Regularly review sales/rental market conditions to optimize exit strategy."},
		{Level: LevelInfo, Icon: "💡", Title: "Phasing", Message: "Consider phasing the development to reduce risk and accelerate returns."},
	}
}

// ClinicRecommendations covers pricing, utilisation, supplies, service mix,
// memberships and payback. Every plan gets a recommendation on each theme
// except supplies, which is only raised when they run high.
func ClinicRecommendations(p clinic.Parameters, rev clinic.Revenue, s clinic.Summary) []Insight {
	var out []Insight

	y1 := s.Year(1)
	if !y1.Margin.Defined || y1.Margin.Value < targetEBITDAMarginY1 {
		out = append(out, Insight{
			Level: LevelWarning, Icon: "💷", Title: "Pricing Strategy",
			Message: "Consider increasing prices as the sensitivity analysis shows significant impact on profitability.",
			Value:   y1.Margin.String(),
		})
	} else {
		out = append(out, Insight{
			Level: LevelSuccess, Icon: "💷", Title: "Pricing Strategy",
			Message: "Current pricing appears optimal. Focus on maintaining premium positioning while monitoring competitor pricing.",
			Value:   y1.Margin.String(),
		})
	}

	util := p.YearUtilizationPct(1)
	if util < lowUtilizationPct {
		out = append(out, Insight{
			Level: LevelWarning, Icon: "📈", Title: "Utilization Improvement",
			Message: "Implement targeted marketing campaigns to increase utilization, which has the strongest impact on profitability.",
			Value:   fmt.Sprintf("%.0f%%", util),
		})
	} else {
		out = append(out, Insight{
			Level: LevelSuccess, Icon: "📈", Title: "Capacity Management",
			Message: fmt.Sprintf("Current utilization projections are healthy. Consider expanding capacity for high-demand services if utilization exceeds %d%%.", capacityExpansionUtil),
			Value:   fmt.Sprintf("%.0f%%", util),
		})
	}

	if p.SuppliesPct > highSuppliesPct {
		out = append(out, Insight{
			Level: LevelWarning, Icon: "📦", Title: "Cost Management",
			Message: "Explore opportunities to reduce supplies costs through bulk purchasing or alternative suppliers.",
			Value:   fmt.Sprintf("%.0f%%", p.SuppliesPct),
		})
	}

	if best, worst, ok := rev[0].ServiceBreakdown().Largest(); ok {
		out = append(out, Insight{
			Level: LevelInfo, Icon: "🧭", Title: "Service Mix Optimization",
			Message: fmt.Sprintf("Focus marketing efforts on %s, which generates the highest revenue. Consider enhancing the offering for %s to improve its performance.", best.Name, worst.Name),
			Value:   format.Currency(best.Amount),
		})
	}

	out = append(out, Insight{
		Level: LevelInfo, Icon: "🎟️", Title: "Membership Program",
		Message: "Actively promote membership options to create recurring revenue and improve cash flow predictability.",
	})

	if s.Payback.Infinite || s.Payback.Months > longPaybackMonths {
		out = append(out, Insight{
			Level: LevelWarning, Icon: "⏳", Title: "Financial Planning",
			Message: fmt.Sprintf("The current payback period exceeds %.0f months. Consider phasing equipment purchases or negotiating better financing terms.", longPaybackMonths),
			Value:   s.Payback.String(),
		})
	} else {
		out = append(out, Insight{
			Level: LevelSuccess, Icon: "🚀", Title: "Expansion Planning",
			Message: "With a healthy payback period, begin planning for potential expansion or additional service offerings after year 2.",
			Value:   s.Payback.String(),
		})
	}
	return out
}
