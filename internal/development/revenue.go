package development

import "github.com/hatchend/feasibility/pkg/mathutil"

// Basis records which valuation produced the gross development value.
type Basis string

const (
	// BasisSales values the scheme as units sold at the sales price.
	BasisSales Basis = "sales"

	// BasisInvestment values the scheme as a let investment capitalised at
	// the exit yield.
	BasisInvestment Basis = "investment"
)

// Revenue is the gross development value on both bases and the chosen one.
// InvestmentValue is nil when the exit yield is zero.
type Revenue struct {
	SalesValue         float64  `json:"salesValue"`
	AnnualRentalIncome float64  `json:"annualRentalIncome"`
	InvestmentValue    *float64 `json:"investmentValue"`
	GDV                float64  `json:"gdv"`
	Basis              Basis    `json:"basis"`
}

// ComputeRevenue values the completed scheme on the sales and investment
// bases and takes the greater. Ties go to the sales basis.
func ComputeRevenue(p Parameters) Revenue {
	r := Revenue{
		SalesValue:         p.SalesPricePerSqft * p.SizeSqft,
		AnnualRentalIncome: mathutil.ApplyPercentage(p.RentalPricePerSqft*p.SizeSqft, p.OccupancyPct),
		GDV:                p.SalesPricePerSqft * p.SizeSqft,
		Basis:              BasisSales,
	}
	if p.ExitYieldPct != 0 {
		investment := r.AnnualRentalIncome / (p.ExitYieldPct / 100)
		r.InvestmentValue = &investment
		if investment > r.SalesValue {
			r.GDV = investment
			r.Basis = BasisInvestment
		}
	}
	return r
}
