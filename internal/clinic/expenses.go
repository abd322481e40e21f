package clinic

import (
	"github.com/hatchend/feasibility/internal/analysis"
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/mathutil"
)

// Expense and investment line names.
const (
	ExpenseRent             = "Rent"
	ExpenseStaff            = "Staff"
	ExpenseEquipmentFinance = "Equipment Finance"
	ExpenseUtilities        = "Utilities"
	ExpenseSupplies         = "Supplies"
	ExpenseInsurance        = "Insurance"
	ExpenseMarketing        = "Marketing"
	ExpenseAccountingLegal  = "Accounting & Legal"
	ExpenseMaintenance      = "Maintenance"
	ExpenseMiscellaneous    = "Miscellaneous"

	InvestmentRenovation = "Renovation"
	InvestmentEquipment  = "Equipment"
	InvestmentMarketing  = "Marketing & Branding"
	InvestmentLegal      = "Legal, Permits & Licences"
)

// yearThreeExtraStaff is the half headcount added in year three.
const yearThreeExtraStaff = 0.5

// Expenses is the three-year operating expense projection.
type Expenses [constants.ProjectionYears]analysis.Breakdown

// ComputeInitialInvestment returns the one-off opening costs.
func ComputeInitialInvestment(p Parameters) analysis.Breakdown {
	return analysis.NewBreakdown(
		analysis.Line{Name: InvestmentRenovation, Amount: p.RenovationCost},
		analysis.Line{Name: InvestmentEquipment, Amount: p.EquipmentCost},
		analysis.Line{Name: InvestmentMarketing, Amount: p.MarketingBrandingInitial},
		analysis.Line{Name: InvestmentLegal, Amount: p.LegalPermitsLicenses},
	)
}

// staffCost is the loaded annual cost of the given headcount.
func (p Parameters) staffCost(headcount float64) float64 {
	return mathutil.Grow(headcount*p.StaffAnnualSalary, p.StaffBenefitsTaxPct)
}

// ComputeExpenses projects operating expenses for each year against that
// year's revenue. Fixed costs inflate year on year, equipment finance is
// flat, maintenance compounds at its own rate, supplies and marketing follow
// revenue, and year three adds half a member of staff.
func ComputeExpenses(p Parameters, rev Revenue) Expenses {
	var out Expenses

	rent := p.RentMonthly * constants.MonthsPerYear
	staff := p.staffCost(p.StaffCount)
	equipment := p.EquipmentFinanceMonthly * constants.MonthsPerYear
	utilities := p.UtilitiesMonthly * constants.MonthsPerYear
	insurance := p.InsuranceAnnual
	accounting := p.AccountingLegalAnnual
	maintenance := p.MaintenanceAnnual
	misc := p.MiscellaneousAnnual
	marketingPct := p.MarketingPctY1

	for i := range out {
		year := i + 1
		switch year {
		case 1:
		case 3:
			rent = mathutil.Grow(rent, p.ExpenseInflationPct)
			staff = mathutil.Grow(p.staffCost(p.StaffCount+yearThreeExtraStaff), p.ExpenseInflationPct)
			utilities = mathutil.Grow(utilities, p.ExpenseInflationPct)
			insurance = mathutil.Grow(insurance, p.ExpenseInflationPct)
			accounting = mathutil.Grow(accounting, p.ExpenseInflationPct)
			maintenance = mathutil.Grow(maintenance, p.MaintenanceIncreasePct)
			misc = mathutil.Grow(misc, p.ExpenseInflationPct)
			marketingPct = p.MarketingPctY2Plus
		default:
			rent = mathutil.Grow(rent, p.ExpenseInflationPct)
			staff = mathutil.Grow(staff, p.ExpenseInflationPct)
			utilities = mathutil.Grow(utilities, p.ExpenseInflationPct)
			insurance = mathutil.Grow(insurance, p.ExpenseInflationPct)
			accounting = mathutil.Grow(accounting, p.ExpenseInflationPct)
			maintenance = mathutil.Grow(maintenance, p.MaintenanceIncreasePct)
			misc = mathutil.Grow(misc, p.ExpenseInflationPct)
			marketingPct = p.MarketingPctY2Plus
		}

		revenue := rev[i].Total
		out[i] = analysis.NewBreakdown(
			analysis.Line{Name: ExpenseRent, Amount: rent},
			analysis.Line{Name: ExpenseStaff, Amount: staff},
			analysis.Line{Name: ExpenseEquipmentFinance, Amount: equipment},
			analysis.Line{Name: ExpenseUtilities, Amount: utilities},
			analysis.Line{Name: ExpenseSupplies, Amount: mathutil.ApplyPercentage(revenue, p.SuppliesPct)},
			analysis.Line{Name: ExpenseInsurance, Amount: insurance},
			analysis.Line{Name: ExpenseMarketing, Amount: mathutil.ApplyPercentage(revenue, marketingPct)},
			analysis.Line{Name: ExpenseAccountingLegal, Amount: accounting},
			analysis.Line{Name: ExpenseMaintenance, Amount: maintenance},
			analysis.Line{Name: ExpenseMiscellaneous, Amount: misc},
		)
	}
	return out
}
