package clinic

import (
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/mathutil"
	"github.com/hatchend/feasibility/pkg/metric"
)

// YearSummary is one projection year's earnings.
type YearSummary struct {
	Year             int          `json:"year"`
	Revenue          float64      `json:"revenue"`
	Expenses         float64      `json:"expenses"`
	EBITDA           float64      `json:"ebitda"`
	Margin           metric.Ratio `json:"ebitdaMargin"`
	CumulativeEBITDA float64      `json:"cumulativeEbitda"`
	ROI              metric.Ratio `json:"roi"`
}

// BreakEven is the visit volume at which year-one fixed costs are covered by
// the contribution of an average service visit. Visit counts are undefined
// when a visit contributes nothing.
type BreakEven struct {
	MonthlyFixedCosts    float64      `json:"monthlyFixedCosts"`
	AverageServicePrice  float64      `json:"averageServicePrice"`
	VariableCostPerVisit float64      `json:"variableCostPerVisit"`
	ContributionMargin   float64      `json:"contributionMargin"`
	MonthlyVisits        metric.Ratio `json:"monthlyVisits"`
	WeeklyVisits         metric.Ratio `json:"weeklyVisits"`
	// DailyVisits assumes a six-day trading week.
	DailyVisits metric.Ratio `json:"dailyVisits"`
	// DailyVisitsMonthBasis spreads the monthly figure over 26 trading days.
	DailyVisitsMonthBasis metric.Ratio `json:"dailyVisitsMonthBasis"`
}

// Summary is the profitability of one business plan.
type Summary struct {
	InitialInvestment float64                                `json:"initialInvestment"`
	Years             [constants.ProjectionYears]YearSummary `json:"years"`
	Payback           metric.Payback                         `json:"paybackMonths"`
	BreakEven         BreakEven                              `json:"breakEven"`
}

// Headline returns year-one EBITDA and its margin.
func (s Summary) Headline() (float64, metric.Ratio) {
	return s.Years[0].EBITDA, s.Years[0].Margin
}

// Year returns the summary of a one-based projection year.
func (s Summary) Year(year int) YearSummary {
	return s.Years[year-1]
}

// ComputeBreakEven derives break-even visit volumes from year-one costs.
func ComputeBreakEven(p Parameters) BreakEven {
	fixed := p.RentMonthly +
		p.staffCost(p.StaffCount)/constants.MonthsPerYear +
		p.EquipmentFinanceMonthly +
		p.UtilitiesMonthly +
		(p.InsuranceAnnual+p.AccountingLegalAnnual+p.MaintenanceAnnual+p.MiscellaneousAnnual)/constants.MonthsPerYear

	avg := (p.CryotherapyPrice + p.SaunaPrice + p.AverageIVPrice() + p.FaceTreatmentPrice) / 4
	variable := mathutil.ApplyPercentage(avg, p.SuppliesPct+p.MarketingPctY1)
	cm := avg - variable

	b := BreakEven{
		MonthlyFixedCosts:    fixed,
		AverageServicePrice:  avg,
		VariableCostPerVisit: variable,
		ContributionMargin:   cm,
	}
	if cm <= 0 {
		return b
	}
	b.MonthlyVisits = metric.Quotient(fixed, cm)
	b.WeeklyVisits = b.MonthlyVisits.Div(constants.WeeksPerMonth)
	b.DailyVisits = b.WeeklyVisits.Div(constants.OperatingDaysPerWeek)
	b.DailyVisitsMonthBasis = b.MonthlyVisits.Div(constants.OperatingDaysPerMonth)
	return b
}

// ComputeProfitability combines the projections. Margins are undefined in a
// year without revenue and ROI is undefined without an initial investment.
// Payback uses year-one EBITDA and never completes when it is not positive.
func ComputeProfitability(p Parameters, investment float64, rev Revenue, exp Expenses) Summary {
	s := Summary{
		InitialInvestment: investment,
		BreakEven:         ComputeBreakEven(p),
	}
	cumulative := 0.0
	for i := range s.Years {
		ebitda := rev[i].Total - exp[i].Total
		cumulative += ebitda
		s.Years[i] = YearSummary{
			Year:             i + 1,
			Revenue:          rev[i].Total,
			Expenses:         exp[i].Total,
			EBITDA:           ebitda,
			Margin:           metric.Percent(ebitda, rev[i].Total),
			CumulativeEBITDA: cumulative,
			ROI:              metric.Percent(cumulative, investment),
		}
	}
	s.Payback = metric.PaybackMonths(investment, s.Years[0].EBITDA)
	return s
}
