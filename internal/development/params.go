// Package development implements the residual appraisal of a property
// development: costs by group, gross development value, profitability,
// monthly cash flow phasing, sensitivity sweeps and named scenarios.
package development

import (
	"fmt"

	"github.com/hatchend/feasibility/pkg/validation"
)

// Parameters is the full input set of one appraisal. Percentages are on the
// 0-100 scale. Values are copied on every transform, never mutated.
type Parameters struct {
	SizeSqft       float64 `yaml:"sizeSqft" json:"sizeSqft" mapstructure:"sizeSqft"`
	DurationMonths int     `yaml:"durationMonths" json:"durationMonths" mapstructure:"durationMonths"`

	// Acquisition
	LandCost             float64 `yaml:"landCost" json:"landCost" mapstructure:"landCost"`
	StampDutyPct         float64 `yaml:"stampDutyPct" json:"stampDutyPct" mapstructure:"stampDutyPct"`
	LegalFeesAcquisition float64 `yaml:"legalFeesAcquisition" json:"legalFeesAcquisition" mapstructure:"legalFeesAcquisition"`
	SurveyCosts          float64 `yaml:"surveyCosts" json:"surveyCosts" mapstructure:"surveyCosts"`

	// Planning & design
	PlanningApplicationFees float64 `yaml:"planningApplicationFees" json:"planningApplicationFees" mapstructure:"planningApplicationFees"`
	ArchitectFees           float64 `yaml:"architectFees" json:"architectFees" mapstructure:"architectFees"`
	EngineeringFees         float64 `yaml:"engineeringFees" json:"engineeringFees" mapstructure:"engineeringFees"`
	OtherConsultantFees     float64 `yaml:"otherConsultantFees" json:"otherConsultantFees" mapstructure:"otherConsultantFees"`
	PlanningContingency     float64 `yaml:"planningContingency" json:"planningContingency" mapstructure:"planningContingency"`

	// Construction
	ConstructionCostPerSqft    float64 `yaml:"constructionCostPerSqft" json:"constructionCostPerSqft" mapstructure:"constructionCostPerSqft"`
	FitOutCostPerSqft          float64 `yaml:"fitOutCostPerSqft" json:"fitOutCostPerSqft" mapstructure:"fitOutCostPerSqft"`
	ExternalWorks              float64 `yaml:"externalWorks" json:"externalWorks" mapstructure:"externalWorks"`
	ConstructionContingencyPct float64 `yaml:"constructionContingencyPct" json:"constructionContingencyPct" mapstructure:"constructionContingencyPct"`

	// Professional fees
	ProjectManagementPct float64 `yaml:"projectManagementPct" json:"projectManagementPct" mapstructure:"projectManagementPct"`
	QuantitySurveyorPct  float64 `yaml:"quantitySurveyorPct" json:"quantitySurveyorPct" mapstructure:"quantitySurveyorPct"`
	BuildingControlFees  float64 `yaml:"buildingControlFees" json:"buildingControlFees" mapstructure:"buildingControlFees"`
	HealthSafetyFees     float64 `yaml:"healthSafetyFees" json:"healthSafetyFees" mapstructure:"healthSafetyFees"`

	// Finance
	InterestRatePct        float64 `yaml:"interestRatePct" json:"interestRatePct" mapstructure:"interestRatePct"`
	LoanToCostPct          float64 `yaml:"loanToCostPct" json:"loanToCostPct" mapstructure:"loanToCostPct"`
	ArrangementFeePct      float64 `yaml:"arrangementFeePct" json:"arrangementFeePct" mapstructure:"arrangementFeePct"`
	LegalFeesFinance       float64 `yaml:"legalFeesFinance" json:"legalFeesFinance" mapstructure:"legalFeesFinance"`
	MonitoringSurveyorFees float64 `yaml:"monitoringSurveyorFees" json:"monitoringSurveyorFees" mapstructure:"monitoringSurveyorFees"`

	// Marketing & disposal
	MarketingBudget   float64 `yaml:"marketingBudget" json:"marketingBudget" mapstructure:"marketingBudget"`
	AgentFeesPct      float64 `yaml:"agentFeesPct" json:"agentFeesPct" mapstructure:"agentFeesPct"`
	LegalFeesDisposal float64 `yaml:"legalFeesDisposal" json:"legalFeesDisposal" mapstructure:"legalFeesDisposal"`

	// Revenue
	SalesPricePerSqft   float64 `yaml:"salesPricePerSqft" json:"salesPricePerSqft" mapstructure:"salesPricePerSqft"`
	RentalPricePerSqft  float64 `yaml:"rentalPricePerSqft" json:"rentalPricePerSqft" mapstructure:"rentalPricePerSqft"`
	OccupancyPct        float64 `yaml:"occupancyPct" json:"occupancyPct" mapstructure:"occupancyPct"`
	ExitYieldPct        float64 `yaml:"exitYieldPct" json:"exitYieldPct" mapstructure:"exitYieldPct"`
	SalesAbsorptionRate float64 `yaml:"salesAbsorptionRate" json:"salesAbsorptionRate" mapstructure:"salesAbsorptionRate"`
}

// Defaults returns the reference appraisal: a 10,000 sq ft scheme over 24
// months on a £5m site.
func Defaults() Parameters {
	return Parameters{
		SizeSqft:       10000,
		DurationMonths: 24,

		LandCost:             5000000,
		StampDutyPct:         5,
		LegalFeesAcquisition: 50000,
		SurveyCosts:          15000,

		PlanningApplicationFees: 25000,
		ArchitectFees:           200000,
		EngineeringFees:         150000,
		OtherConsultantFees:     75000,
		PlanningContingency:     50000,

		ConstructionCostPerSqft:    350,
		FitOutCostPerSqft:          100,
		ExternalWorks:              200000,
		ConstructionContingencyPct: 10,

		ProjectManagementPct: 3,
		QuantitySurveyorPct:  1.5,
		BuildingControlFees:  15000,
		HealthSafetyFees:     10000,

		InterestRatePct:        6.5,
		LoanToCostPct:          70,
		ArrangementFeePct:      1.5,
		LegalFeesFinance:       25000,
		MonitoringSurveyorFees: 30000,

		MarketingBudget:   100000,
		AgentFeesPct:      1.5,
		LegalFeesDisposal: 35000,

		SalesPricePerSqft:   1200,
		RentalPricePerSqft:  60,
		OccupancyPct:        95,
		ExitYieldPct:        4.5,
		SalesAbsorptionRate: 2,
	}
}

// Validate rejects parameter sets outside the model's domain: size,
// duration, exit yield and absorption rate must be strictly positive and
// every input finite. It returns warnings for negative amounts and
// percentages outside 0-100, which are evaluated unchanged.
func (p Parameters) Validate() ([]string, error) {
	var c validation.Checker
	c.Positive(
		validation.Field{Name: "sizeSqft", Value: p.SizeSqft},
		validation.Field{Name: "durationMonths", Value: float64(p.DurationMonths)},
		validation.Field{Name: "exitYieldPct", Value: p.ExitYieldPct},
		validation.Field{Name: "salesAbsorptionRate", Value: p.SalesAbsorptionRate},
	)
	c.NonNegative(
		validation.Field{Name: "landCost", Value: p.LandCost},
		validation.Field{Name: "legalFeesAcquisition", Value: p.LegalFeesAcquisition},
		validation.Field{Name: "surveyCosts", Value: p.SurveyCosts},
		validation.Field{Name: "planningApplicationFees", Value: p.PlanningApplicationFees},
		validation.Field{Name: "architectFees", Value: p.ArchitectFees},
		validation.Field{Name: "engineeringFees", Value: p.EngineeringFees},
		validation.Field{Name: "otherConsultantFees", Value: p.OtherConsultantFees},
		validation.Field{Name: "planningContingency", Value: p.PlanningContingency},
		validation.Field{Name: "constructionCostPerSqft", Value: p.ConstructionCostPerSqft},
		validation.Field{Name: "fitOutCostPerSqft", Value: p.FitOutCostPerSqft},
		validation.Field{Name: "externalWorks", Value: p.ExternalWorks},
		validation.Field{Name: "buildingControlFees", Value: p.BuildingControlFees},
		validation.Field{Name: "healthSafetyFees", Value: p.HealthSafetyFees},
		validation.Field{Name: "interestRatePct", Value: p.InterestRatePct},
		validation.Field{Name: "legalFeesFinance", Value: p.LegalFeesFinance},
		validation.Field{Name: "monitoringSurveyorFees", Value: p.MonitoringSurveyorFees},
		validation.Field{Name: "marketingBudget", Value: p.MarketingBudget},
		validation.Field{Name: "legalFeesDisposal", Value: p.LegalFeesDisposal},
		validation.Field{Name: "salesPricePerSqft", Value: p.SalesPricePerSqft},
		validation.Field{Name: "rentalPricePerSqft", Value: p.RentalPricePerSqft},
	)
	c.Percentage(
		validation.Field{Name: "stampDutyPct", Value: p.StampDutyPct},
		validation.Field{Name: "constructionContingencyPct", Value: p.ConstructionContingencyPct},
		validation.Field{Name: "projectManagementPct", Value: p.ProjectManagementPct},
		validation.Field{Name: "quantitySurveyorPct", Value: p.QuantitySurveyorPct},
		validation.Field{Name: "loanToCostPct", Value: p.LoanToCostPct},
		validation.Field{Name: "arrangementFeePct", Value: p.ArrangementFeePct},
		validation.Field{Name: "agentFeesPct", Value: p.AgentFeesPct},
		validation.Field{Name: "occupancyPct", Value: p.OccupancyPct},
	)
	if err := c.Err(); err != nil {
		return c.Warnings(), fmt.Errorf("invalid development parameters: %w", err)
	}
	return c.Warnings(), nil
}
