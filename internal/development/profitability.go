package development

import (
	"github.com/hatchend/feasibility/pkg/metric"
)

// Summary is the profitability of one appraisal. Profit is exactly GDV less
// total cost. Margins are undefined, not zero, when their denominator is.
type Summary struct {
	GDV            float64      `json:"gdv"`
	Basis          Basis        `json:"basis"`
	TotalCost      float64      `json:"totalCost"`
	Profit         float64      `json:"profit"`
	MarginOnCost   metric.Ratio `json:"marginOnCost"`
	MarginOnGDV    metric.Ratio `json:"marginOnGdv"`
	LoanAmount     float64      `json:"loanAmount"`
	EquityRequired float64      `json:"equityRequired"`
	ROE            metric.Ratio `json:"roe"`
	// ApproxIRR is ROE spread evenly over the project years. It is an
	// algebraic approximation, not a solved internal rate of return.
	ApproxIRR      metric.Ratio `json:"approxIrr"`
	CostPerSqft    metric.Ratio `json:"costPerSqft"`
	DurationMonths int          `json:"durationMonths"`
	PaybackMonths  int          `json:"paybackMonths"`
}

// Headline returns the profit and margin on cost.
func (s Summary) Headline() (float64, metric.Ratio) {
	return s.Profit, s.MarginOnCost
}

// ComputeProfitability combines costs and revenue. Equity is the total
// development cost not covered by the loan. Payback is the end of the
// project since the scheme is sold or refinanced on completion.
func ComputeProfitability(p Parameters, costs Costs, rev Revenue) Summary {
	total := costs.Total()
	profit := rev.GDV - total
	equity := total - costs.LoanAmount

	s := Summary{
		GDV:            rev.GDV,
		Basis:          rev.Basis,
		TotalCost:      total,
		Profit:         profit,
		MarginOnCost:   metric.Percent(profit, total),
		MarginOnGDV:    metric.Percent(profit, rev.GDV),
		LoanAmount:     costs.LoanAmount,
		EquityRequired: equity,
		ROE:            metric.Percent(profit, equity),
		CostPerSqft:    metric.Quotient(total, p.SizeSqft),
		DurationMonths: p.DurationMonths,
		PaybackMonths:  p.DurationMonths,
	}
	s.ApproxIRR = s.ROE.Div(float64(p.DurationMonths) / 12)
	return s
}
