package development

import (
	"github.com/hatchend/feasibility/internal/analysis"
	"github.com/hatchend/feasibility/pkg/mathutil"
)

// Cost group names, in the order they are summed.
const (
	GroupAcquisition  = "Acquisition"
	GroupPlanning     = "Planning & Design"
	GroupConstruction = "Construction"
	GroupProfessional = "Professional Fees"
	GroupFinance      = "Finance"
	GroupMarketing    = "Marketing & Disposal"
)

// Costs holds every cost group with its lines, the loan the finance group
// is priced on, and the six group totals.
type Costs struct {
	Acquisition    analysis.Breakdown `json:"acquisition"`
	PlanningDesign analysis.Breakdown `json:"planningDesign"`
	Construction   analysis.Breakdown `json:"construction"`
	Professional   analysis.Breakdown `json:"professional"`
	Finance        analysis.Breakdown `json:"finance"`
	Marketing      analysis.Breakdown `json:"marketing"`

	CostBeforeFinance float64            `json:"costBeforeFinance"`
	LoanAmount        float64            `json:"loanAmount"`
	Groups            analysis.Breakdown `json:"groups"`
}

// Total is the grand total development cost.
func (c Costs) Total() float64 {
	return c.Groups.Total
}

// Detail returns every cost line of every group in group order.
func (c Costs) Detail() []analysis.Line {
	var lines []analysis.Line
	for _, g := range c.Breakdowns() {
		lines = append(lines, g.Lines...)
	}
	return lines
}

// Breakdowns returns the six group breakdowns in the order of Groups.
func (c Costs) Breakdowns() []analysis.Breakdown {
	return []analysis.Breakdown{c.Acquisition, c.PlanningDesign, c.Construction, c.Professional, c.Finance, c.Marketing}
}

// ComputeCosts derives all six cost groups. Revenue must be computed first
// because agent fees are charged on the sales value.
func ComputeCosts(p Parameters, rev Revenue) Costs {
	var c Costs

	c.Acquisition = analysis.NewBreakdown(
		analysis.Line{Name: "Land Cost", Amount: p.LandCost},
		analysis.Line{Name: "Stamp Duty", Amount: mathutil.ApplyPercentage(p.LandCost, p.StampDutyPct)},
		analysis.Line{Name: "Legal Fees (Acquisition)", Amount: p.LegalFeesAcquisition},
		analysis.Line{Name: "Survey Costs", Amount: p.SurveyCosts},
	)

	c.PlanningDesign = analysis.NewBreakdown(
		analysis.Line{Name: "Planning Application", Amount: p.PlanningApplicationFees},
		analysis.Line{Name: "Architect Fees", Amount: p.ArchitectFees},
		analysis.Line{Name: "Engineering Fees", Amount: p.EngineeringFees},
		analysis.Line{Name: "Other Consultants", Amount: p.OtherConsultantFees},
		analysis.Line{Name: "Planning Contingency", Amount: p.PlanningContingency},
	)

	base := p.ConstructionCostPerSqft * p.SizeSqft
	fitOut := p.FitOutCostPerSqft * p.SizeSqft
	c.Construction = analysis.NewBreakdown(
		analysis.Line{Name: "Base Construction", Amount: base},
		analysis.Line{Name: "Fit-Out", Amount: fitOut},
		analysis.Line{Name: "External Works", Amount: p.ExternalWorks},
		analysis.Line{Name: "Construction Contingency", Amount: mathutil.ApplyPercentage(base+fitOut+p.ExternalWorks, p.ConstructionContingencyPct)},
	)

	c.Professional = analysis.NewBreakdown(
		analysis.Line{Name: "Project Management", Amount: mathutil.ApplyPercentage(c.Construction.Total, p.ProjectManagementPct)},
		analysis.Line{Name: "Quantity Surveyor", Amount: mathutil.ApplyPercentage(c.Construction.Total, p.QuantitySurveyorPct)},
		analysis.Line{Name: "Building Control", Amount: p.BuildingControlFees},
		analysis.Line{Name: "Health & Safety", Amount: p.HealthSafetyFees},
	)

	c.CostBeforeFinance = c.Acquisition.Total + c.PlanningDesign.Total + c.Construction.Total + c.Professional.Total
	c.LoanAmount = mathutil.ApplyPercentage(c.CostBeforeFinance, p.LoanToCostPct)

	// Simple interest on the average balance of a linear drawdown.
	averageLoanMonths := float64(p.DurationMonths) / 2
	interest := mathutil.ApplyPercentage(c.LoanAmount, p.InterestRatePct) * averageLoanMonths / 12
	c.Finance = analysis.NewBreakdown(
		analysis.Line{Name: "Interest", Amount: interest},
		analysis.Line{Name: "Arrangement Fee", Amount: mathutil.ApplyPercentage(c.LoanAmount, p.ArrangementFeePct)},
		analysis.Line{Name: "Legal Fees (Finance)", Amount: p.LegalFeesFinance},
		analysis.Line{Name: "Monitoring Surveyor", Amount: p.MonitoringSurveyorFees},
	)

	c.Marketing = analysis.NewBreakdown(
		analysis.Line{Name: "Marketing Budget", Amount: p.MarketingBudget},
		analysis.Line{Name: "Agent Fees", Amount: mathutil.ApplyPercentage(rev.SalesValue, p.AgentFeesPct)},
		analysis.Line{Name: "Legal Fees (Disposal)", Amount: p.LegalFeesDisposal},
	)

	c.Groups = analysis.NewBreakdown(
		analysis.Line{Name: GroupAcquisition, Amount: c.Acquisition.Total},
		analysis.Line{Name: GroupPlanning, Amount: c.PlanningDesign.Total},
		analysis.Line{Name: GroupConstruction, Amount: c.Construction.Total},
		analysis.Line{Name: GroupProfessional, Amount: c.Professional.Total},
		analysis.Line{Name: GroupFinance, Amount: c.Finance.Total},
		analysis.Line{Name: GroupMarketing, Amount: c.Marketing.Total},
	)
	return c
}
