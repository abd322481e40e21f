// Package clinic implements the three-year business plan of a wellness
// clinic: per-service and membership revenue, operating expenses,
// EBITDA, ROI, payback, break-even visits, sensitivity sweeps and named
// scenarios.
package clinic

import (
	"fmt"

	"github.com/hatchend/feasibility/pkg/validation"
)

// Parameters is the full input set of one business plan. Percentages are on
// the 0-100 scale, utilisation factors are multipliers.
type Parameters struct {
	SizeSqft             float64 `yaml:"sizeSqft" json:"sizeSqft" mapstructure:"sizeSqft"`
	OperatingHoursWeekly float64 `yaml:"operatingHoursWeekly" json:"operatingHoursWeekly" mapstructure:"operatingHoursWeekly"`

	// Initial investment
	RenovationCost           float64 `yaml:"renovationCost" json:"renovationCost" mapstructure:"renovationCost"`
	EquipmentCost            float64 `yaml:"equipmentCost" json:"equipmentCost" mapstructure:"equipmentCost"`
	MarketingBrandingInitial float64 `yaml:"marketingBrandingInitial" json:"marketingBrandingInitial" mapstructure:"marketingBrandingInitial"`
	LegalPermitsLicenses     float64 `yaml:"legalPermitsLicenses" json:"legalPermitsLicenses" mapstructure:"legalPermitsLicenses"`

	// Service prices per session
	CryotherapyPrice   float64 `yaml:"cryotherapyPrice" json:"cryotherapyPrice" mapstructure:"cryotherapyPrice"`
	SaunaPrice         float64 `yaml:"saunaPrice" json:"saunaPrice" mapstructure:"saunaPrice"`
	IVBasicPrice       float64 `yaml:"ivBasicPrice" json:"ivBasicPrice" mapstructure:"ivBasicPrice"`
	IVPremiumPrice     float64 `yaml:"ivPremiumPrice" json:"ivPremiumPrice" mapstructure:"ivPremiumPrice"`
	FaceTreatmentPrice float64 `yaml:"faceTreatmentPrice" json:"faceTreatmentPrice" mapstructure:"faceTreatmentPrice"`

	// Monthly membership prices
	SilverPrice   float64 `yaml:"silverPrice" json:"silverPrice" mapstructure:"silverPrice"`
	GoldPrice     float64 `yaml:"goldPrice" json:"goldPrice" mapstructure:"goldPrice"`
	PlatinumPrice float64 `yaml:"platinumPrice" json:"platinumPrice" mapstructure:"platinumPrice"`

	// Sessions per hour
	CryotherapyCapacity   float64 `yaml:"cryotherapyCapacity" json:"cryotherapyCapacity" mapstructure:"cryotherapyCapacity"`
	SaunaCapacity         float64 `yaml:"saunaCapacity" json:"saunaCapacity" mapstructure:"saunaCapacity"`
	IVCapacity            float64 `yaml:"ivCapacity" json:"ivCapacity" mapstructure:"ivCapacity"`
	FaceTreatmentCapacity float64 `yaml:"faceTreatmentCapacity" json:"faceTreatmentCapacity" mapstructure:"faceTreatmentCapacity"`

	// Utilisation
	Year1StartUtilizationPct float64 `yaml:"year1StartUtilizationPct" json:"year1StartUtilizationPct" mapstructure:"year1StartUtilizationPct"`
	Year1EndUtilizationPct   float64 `yaml:"year1EndUtilizationPct" json:"year1EndUtilizationPct" mapstructure:"year1EndUtilizationPct"`
	Year2StartUtilizationPct float64 `yaml:"year2StartUtilizationPct" json:"year2StartUtilizationPct" mapstructure:"year2StartUtilizationPct"`
	Year2EndUtilizationPct   float64 `yaml:"year2EndUtilizationPct" json:"year2EndUtilizationPct" mapstructure:"year2EndUtilizationPct"`
	Year3UtilizationPct      float64 `yaml:"year3UtilizationPct" json:"year3UtilizationPct" mapstructure:"year3UtilizationPct"`

	CryotherapyFactor   float64 `yaml:"cryotherapyFactor" json:"cryotherapyFactor" mapstructure:"cryotherapyFactor"`
	SaunaFactor         float64 `yaml:"saunaFactor" json:"saunaFactor" mapstructure:"saunaFactor"`
	IVFactor            float64 `yaml:"ivFactor" json:"ivFactor" mapstructure:"ivFactor"`
	FaceTreatmentFactor float64 `yaml:"faceTreatmentFactor" json:"faceTreatmentFactor" mapstructure:"faceTreatmentFactor"`

	// Operating expenses
	RentMonthly             float64 `yaml:"rentMonthly" json:"rentMonthly" mapstructure:"rentMonthly"`
	StaffCount              float64 `yaml:"staffCount" json:"staffCount" mapstructure:"staffCount"`
	StaffAnnualSalary       float64 `yaml:"staffAnnualSalary" json:"staffAnnualSalary" mapstructure:"staffAnnualSalary"`
	StaffBenefitsTaxPct     float64 `yaml:"staffBenefitsTaxPct" json:"staffBenefitsTaxPct" mapstructure:"staffBenefitsTaxPct"`
	EquipmentFinanceMonthly float64 `yaml:"equipmentFinanceMonthly" json:"equipmentFinanceMonthly" mapstructure:"equipmentFinanceMonthly"`
	UtilitiesMonthly        float64 `yaml:"utilitiesMonthly" json:"utilitiesMonthly" mapstructure:"utilitiesMonthly"`
	SuppliesPct             float64 `yaml:"suppliesPct" json:"suppliesPct" mapstructure:"suppliesPct"`
	InsuranceAnnual         float64 `yaml:"insuranceAnnual" json:"insuranceAnnual" mapstructure:"insuranceAnnual"`
	MarketingPctY1          float64 `yaml:"marketingPctY1" json:"marketingPctY1" mapstructure:"marketingPctY1"`
	MarketingPctY2Plus      float64 `yaml:"marketingPctY2Plus" json:"marketingPctY2Plus" mapstructure:"marketingPctY2Plus"`
	AccountingLegalAnnual   float64 `yaml:"accountingLegalAnnual" json:"accountingLegalAnnual" mapstructure:"accountingLegalAnnual"`
	MaintenanceAnnual       float64 `yaml:"maintenanceAnnual" json:"maintenanceAnnual" mapstructure:"maintenanceAnnual"`
	MiscellaneousAnnual     float64 `yaml:"miscellaneousAnnual" json:"miscellaneousAnnual" mapstructure:"miscellaneousAnnual"`

	// Growth & inflation
	PriceIncreaseY2Pct     float64 `yaml:"priceIncreaseY2Pct" json:"priceIncreaseY2Pct" mapstructure:"priceIncreaseY2Pct"`
	PriceIncreaseY3Pct     float64 `yaml:"priceIncreaseY3Pct" json:"priceIncreaseY3Pct" mapstructure:"priceIncreaseY3Pct"`
	ExpenseInflationPct    float64 `yaml:"expenseInflationPct" json:"expenseInflationPct" mapstructure:"expenseInflationPct"`
	MaintenanceIncreasePct float64 `yaml:"maintenanceIncreasePct" json:"maintenanceIncreasePct" mapstructure:"maintenanceIncreasePct"`

	// Membership
	SilverMembers         float64 `yaml:"silverMembers" json:"silverMembers" mapstructure:"silverMembers"`
	GoldMembers           float64 `yaml:"goldMembers" json:"goldMembers" mapstructure:"goldMembers"`
	PlatinumMembers       float64 `yaml:"platinumMembers" json:"platinumMembers" mapstructure:"platinumMembers"`
	MembershipGrowthY2Pct float64 `yaml:"membershipGrowthY2Pct" json:"membershipGrowthY2Pct" mapstructure:"membershipGrowthY2Pct"`
	MembershipGrowthY3Pct float64 `yaml:"membershipGrowthY3Pct" json:"membershipGrowthY3Pct" mapstructure:"membershipGrowthY3Pct"`
}

// Defaults returns the reference plan: a 1,600 sq ft clinic open 66 hours a
// week with three staff.
func Defaults() Parameters {
	return Parameters{
		SizeSqft:             1600,
		OperatingHoursWeekly: 66,

		RenovationCost:           135000,
		EquipmentCost:            50000,
		MarketingBrandingInitial: 15000,
		LegalPermitsLicenses:     10000,

		CryotherapyPrice:   45,
		SaunaPrice:         45,
		IVBasicPrice:       150,
		IVPremiumPrice:     250,
		FaceTreatmentPrice: 50,

		SilverPrice:   225,
		GoldPrice:     400,
		PlatinumPrice: 550,

		CryotherapyCapacity:   3,
		SaunaCapacity:         4,
		IVCapacity:            1,
		FaceTreatmentCapacity: 2,

		Year1StartUtilizationPct: 20,
		Year1EndUtilizationPct:   40,
		Year2StartUtilizationPct: 40,
		Year2EndUtilizationPct:   60,
		Year3UtilizationPct:      65,

		CryotherapyFactor:   1.0,
		SaunaFactor:         1.2,
		IVFactor:            0.5,
		FaceTreatmentFactor: 1.0,

		RentMonthly:             5000,
		StaffCount:              3,
		StaffAnnualSalary:       30000,
		StaffBenefitsTaxPct:     20,
		EquipmentFinanceMonthly: 3500,
		UtilitiesMonthly:        2000,
		SuppliesPct:             20,
		InsuranceAnnual:         6000,
		MarketingPctY1:          12,
		MarketingPctY2Plus:      8,
		AccountingLegalAnnual:   6000,
		MaintenanceAnnual:       7200,
		MiscellaneousAnnual:     5000,

		PriceIncreaseY2Pct:     10,
		PriceIncreaseY3Pct:     5,
		ExpenseInflationPct:    3,
		MaintenanceIncreasePct: 25,

		SilverMembers:         20,
		GoldMembers:           10,
		PlatinumMembers:       5,
		MembershipGrowthY2Pct: 50,
		MembershipGrowthY3Pct: 30,
	}
}

// Validate rejects parameter sets outside the model's domain: operating
// hours must be strictly positive and every input finite. It returns
// warnings for negative amounts and percentages outside 0-100.
func (p Parameters) Validate() ([]string, error) {
	var c validation.Checker
	c.Positive(
		validation.Field{Name: "operatingHoursWeekly", Value: p.OperatingHoursWeekly},
	)
	c.NonNegative(
		validation.Field{Name: "sizeSqft", Value: p.SizeSqft},
		validation.Field{Name: "renovationCost", Value: p.RenovationCost},
		validation.Field{Name: "equipmentCost", Value: p.EquipmentCost},
		validation.Field{Name: "marketingBrandingInitial", Value: p.MarketingBrandingInitial},
		validation.Field{Name: "legalPermitsLicenses", Value: p.LegalPermitsLicenses},
		validation.Field{Name: "cryotherapyPrice", Value: p.CryotherapyPrice},
		validation.Field{Name: "saunaPrice", Value: p.SaunaPrice},
		validation.Field{Name: "ivBasicPrice", Value: p.IVBasicPrice},
		validation.Field{Name: "ivPremiumPrice", Value: p.IVPremiumPrice},
		validation.Field{Name: "faceTreatmentPrice", Value: p.FaceTreatmentPrice},
		validation.Field{Name: "silverPrice", Value: p.SilverPrice},
		validation.Field{Name: "goldPrice", Value: p.GoldPrice},
		validation.Field{Name: "platinumPrice", Value: p.PlatinumPrice},
		validation.Field{Name: "cryotherapyCapacity", Value: p.CryotherapyCapacity},
		validation.Field{Name: "saunaCapacity", Value: p.SaunaCapacity},
		validation.Field{Name: "ivCapacity", Value: p.IVCapacity},
		validation.Field{Name: "faceTreatmentCapacity", Value: p.FaceTreatmentCapacity},
		validation.Field{Name: "cryotherapyFactor", Value: p.CryotherapyFactor},
		validation.Field{Name: "saunaFactor", Value: p.SaunaFactor},
		validation.Field{Name: "ivFactor", Value: p.IVFactor},
		validation.Field{Name: "faceTreatmentFactor", Value: p.FaceTreatmentFactor},
		validation.Field{Name: "rentMonthly", Value: p.RentMonthly},
		validation.Field{Name: "staffCount", Value: p.StaffCount},
		validation.Field{Name: "staffAnnualSalary", Value: p.StaffAnnualSalary},
		validation.Field{Name: "equipmentFinanceMonthly", Value: p.EquipmentFinanceMonthly},
		validation.Field{Name: "utilitiesMonthly", Value: p.UtilitiesMonthly},
		validation.Field{Name: "insuranceAnnual", Value: p.InsuranceAnnual},
		validation.Field{Name: "accountingLegalAnnual", Value: p.AccountingLegalAnnual},
		validation.Field{Name: "maintenanceAnnual", Value: p.MaintenanceAnnual},
		validation.Field{Name: "miscellaneousAnnual", Value: p.MiscellaneousAnnual},
		validation.Field{Name: "silverMembers", Value: p.SilverMembers},
		validation.Field{Name: "goldMembers", Value: p.GoldMembers},
		validation.Field{Name: "platinumMembers", Value: p.PlatinumMembers},
	)
	c.Percentage(
		validation.Field{Name: "year1StartUtilizationPct", Value: p.Year1StartUtilizationPct},
		validation.Field{Name: "year1EndUtilizationPct", Value: p.Year1EndUtilizationPct},
		validation.Field{Name: "year2StartUtilizationPct", Value: p.Year2StartUtilizationPct},
		validation.Field{Name: "year2EndUtilizationPct", Value: p.Year2EndUtilizationPct},
		validation.Field{Name: "year3UtilizationPct", Value: p.Year3UtilizationPct},
		validation.Field{Name: "staffBenefitsTaxPct", Value: p.StaffBenefitsTaxPct},
		validation.Field{Name: "suppliesPct", Value: p.SuppliesPct},
		validation.Field{Name: "marketingPctY1", Value: p.MarketingPctY1},
		validation.Field{Name: "marketingPctY2Plus", Value: p.MarketingPctY2Plus},
		validation.Field{Name: "priceIncreaseY2Pct", Value: p.PriceIncreaseY2Pct},
		validation.Field{Name: "priceIncreaseY3Pct", Value: p.PriceIncreaseY3Pct},
		validation.Field{Name: "expenseInflationPct", Value: p.ExpenseInflationPct},
		validation.Field{Name: "maintenanceIncreasePct", Value: p.MaintenanceIncreasePct},
		validation.Field{Name: "membershipGrowthY2Pct", Value: p.MembershipGrowthY2Pct},
		validation.Field{Name: "membershipGrowthY3Pct", Value: p.MembershipGrowthY3Pct},
	)
	if err := c.Err(); err != nil {
		return c.Warnings(), fmt.Errorf("invalid clinic parameters: %w", err)
	}
	return c.Warnings(), nil
}

// YearUtilizationPct returns the average utilisation of a projection year:
// the start/end mean for years one and two and the flat rate for year three.
func (p Parameters) YearUtilizationPct(year int) float64 {
	switch year {
	case 1:
		return (p.Year1StartUtilizationPct + p.Year1EndUtilizationPct) / 2
	case 2:
		return (p.Year2StartUtilizationPct + p.Year2EndUtilizationPct) / 2
	default:
		return p.Year3UtilizationPct
	}
}

// AverageIVPrice is the mean of the basic and premium IV session prices.
func (p Parameters) AverageIVPrice() float64 {
	return (p.IVBasicPrice + p.IVPremiumPrice) / 2
}
