package development

import (
	"fmt"
	"math"

	"github.com/hatchend/feasibility/pkg/mathutil"
)

// Curve is a phasing profile over the project months. Its weights sum to 1.
type Curve []float64

// Curves holds the phasing profile of every cost group.
type Curves struct {
	Acquisition  Curve `json:"acquisition"`
	Planning     Curve `json:"planning"`
	Construction Curve `json:"construction"`
	Professional Curve `json:"professional"`
	Finance      Curve `json:"finance"`
	Marketing    Curve `json:"marketing"`
}

// CashflowMonth is one month of the development cash flow. Month is zero
// based.
type CashflowMonth struct {
	Month             int     `json:"month"`
	Cost              float64 `json:"cost"`
	Revenue           float64 `json:"revenue"`
	CumulativeCost    float64 `json:"cumulativeCost"`
	CumulativeRevenue float64 `json:"cumulativeRevenue"`
	NetCashflow       float64 `json:"netCashflow"`
}

// Cashflow is the monthly cash flow with its peak funding requirement.
type Cashflow struct {
	Months      []CashflowMonth `json:"months"`
	PeakFunding float64         `json:"peakFunding"`
	PeakMonth   int             `json:"peakMonth"`
}

const (
	planningWindowMonths   = 6
	constructionStartMonth = 3
	marketingWindowMonths  = 6
	sCurveSteepness        = 0.5
	sqftPerSalesUnit       = 1000
)

func sCurve(x, window float64) float64 {
	return 1 / (1 + math.Exp(-sCurveSteepness*(x-window/2)))
}

// uniform spreads weight evenly over [start, end).
func uniform(duration, start, end int) Curve {
	c := make(Curve, duration)
	n := end - start
	for i := start; i < end; i++ {
		c[i] = 1 / float64(n)
	}
	return c
}

// bell samples the first difference of the logistic S-curve over the window
// starting at start and rescales it to sum to 1. The raw differences only
// sum to sCurve(d)-sCurve(0).
func bell(duration, start int) Curve {
	c := make(Curve, duration)
	window := float64(duration - start)
	total := 0.0
	for i := start; i < duration; i++ {
		m := float64(i - start)
		c[i] = sCurve(m+1, window) - sCurve(m, window)
		total += c[i]
	}
	for i := start; i < duration; i++ {
		c[i] /= total
	}
	return c
}

// PhasingCurves builds the phasing profile of every cost group for a
// project of the given length.
func PhasingCurves(duration int) (Curves, error) {
	if duration < 1 {
		return Curves{}, fmt.Errorf("phasing needs at least one month, got %d", duration)
	}

	construction := bell(duration, min(constructionStartMonth, duration-1))
	professional := make(Curve, duration)
	copy(professional, construction)

	return Curves{
		Acquisition:  uniform(duration, 0, 1),
		Planning:     uniform(duration, 0, min(planningWindowMonths, duration)),
		Construction: construction,
		Professional: professional,
		Finance:      uniform(duration, 0, duration),
		Marketing:    uniform(duration, max(0, duration-marketingWindowMonths), duration),
	}, nil
}

// RevenueCurve phases the gross development value. On the sales basis it is
// received evenly over the disposal tail, whose length is the number of
// 1,000 sq ft units divided by the monthly absorption rate, clamped to the
// project. On the investment basis it all arrives in the final month.
func RevenueCurve(duration int, basis Basis, sizeSqft, absorption float64) Curve {
	if basis == BasisInvestment || absorption <= 0 {
		return uniform(duration, duration-1, duration)
	}
	tail := int(sizeSqft / sqftPerSalesUnit / absorption)
	tail = max(1, min(tail, duration))
	return uniform(duration, duration-tail, duration)
}

// PhaseCashflow distributes the cost group totals and revenue across the
// project months and accumulates them. The cumulative cost in the last month
// equals the total development cost.
func PhaseCashflow(duration int, costs Costs, rev Revenue, p Parameters) (Cashflow, error) {
	curves, err := PhasingCurves(duration)
	if err != nil {
		return Cashflow{}, err
	}
	revenue := RevenueCurve(duration, rev.Basis, p.SizeSqft, p.SalesAbsorptionRate)

	weighted := []struct {
		curve Curve
		total float64
	}{
		{curves.Acquisition, costs.Acquisition.Total},
		{curves.Planning, costs.PlanningDesign.Total},
		{curves.Construction, costs.Construction.Total},
		{curves.Professional, costs.Professional.Total},
		{curves.Finance, costs.Finance.Total},
		{curves.Marketing, costs.Marketing.Total},
	}

	cf := Cashflow{Months: make([]CashflowMonth, duration)}
	var cumCost, cumRevenue float64
	for m := 0; m < duration; m++ {
		cost := 0.0
		for _, w := range weighted {
			cost += w.curve[m] * w.total
		}
		income := revenue[m] * rev.GDV
		cumCost += cost
		cumRevenue += income

		net := cumRevenue - cumCost
		cf.Months[m] = CashflowMonth{
			Month:             m,
			Cost:              cost,
			Revenue:           income,
			CumulativeCost:    cumCost,
			CumulativeRevenue: cumRevenue,
			NetCashflow:       net,
		}
		if -net > cf.PeakFunding {
			cf.PeakFunding = -net
			cf.PeakMonth = m
		}
	}
	return cf, nil
}

// Sum returns the total weight of the curve.
func (c Curve) Sum() float64 {
	return mathutil.Sum(c)
}
