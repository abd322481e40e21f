package output

import (
	"fmt"

	"github.com/hatchend/feasibility/internal/advisory"
	"github.com/hatchend/feasibility/internal/analysis"
	"github.com/hatchend/feasibility/internal/budget"
	"github.com/hatchend/feasibility/internal/report"
	"github.com/hatchend/feasibility/pkg/metric"
)

// Kind says how a cell is rendered.
type Kind int

const (
	KindText Kind = iota
	KindMoney
	KindPercent
	KindNumber
)

// Cell is one table value. Undefined cells render as N/A.
type Cell struct {
	Kind      Kind
	Text      string
	Value     float64
	Undefined bool
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Money returns a currency cell.
func Money(v float64) Cell { return Cell{Kind: KindMoney, Value: v} }

// Number returns a plain numeric cell.
func Number(v float64) Cell { return Cell{Kind: KindNumber, Value: v} }

// Percent returns a percentage cell from a possibly undefined ratio.
func Percent(r metric.Ratio) Cell {
	return Cell{Kind: KindPercent, Value: r.Value, Undefined: !r.Defined}
}

// MoneyRatio returns a currency cell from a possibly undefined quotient.
func MoneyRatio(r metric.Ratio) Cell {
	return Cell{Kind: KindMoney, Value: r.Value, Undefined: !r.Defined}
}

// NumberRatio returns a numeric cell from a possibly undefined quotient.
func NumberRatio(r metric.Ratio) Cell {
	return Cell{Kind: KindNumber, Value: r.Value, Undefined: !r.Defined}
}

// Table is one titled grid of a report.
type Table struct {
	Title  string
	Header []string
	Rows   [][]Cell
}

func (t *Table) add(cells ...Cell) {
	t.Rows = append(t.Rows, cells)
}

// Tables lays a report out as the tables every format renders, development
// first.
func Tables(r *report.Report) []Table {
	var out []Table
	if r.Development != nil {
		out = append(out, developmentTables(r.Development)...)
	}
	if r.Clinic != nil {
		out = append(out, clinicTables(r.Clinic)...)
	}
	return out
}

func developmentTables(d *report.DevelopmentReport) []Table {
	a := d.Appraisal
	s := a.Summary

	summary := Table{Title: "Development Summary", Header: []string{"Metric", "Value"}}
	summary.add(Text("Valuation Basis"), Text(string(s.Basis)))
	summary.add(Text("Gross Development Value"), Money(s.GDV))
	summary.add(Text("Total Development Cost"), Money(s.TotalCost))
	summary.add(Text("Development Profit"), Money(s.Profit))
	summary.add(Text("Profit on Cost"), Percent(s.MarginOnCost))
	summary.add(Text("Profit on GDV"), Percent(s.MarginOnGDV))
	summary.add(Text("Loan Amount"), Money(s.LoanAmount))
	summary.add(Text("Equity Required"), Money(s.EquityRequired))
	summary.add(Text("Return on Equity"), Percent(s.ROE))
	summary.add(Text("IRR (approx.)"), Percent(s.ApproxIRR))
	summary.add(Text("Cost per sq ft"), MoneyRatio(s.CostPerSqft))
	summary.add(Text("Duration (months)"), Number(float64(s.DurationMonths)))
	summary.add(Text("Peak Funding"), Money(a.Cashflow.PeakFunding))
	summary.add(Text("Peak Funding Month"), Number(float64(a.Cashflow.PeakMonth+1)))

	costs := Table{Title: "Development Costs", Header: []string{"Group", "Item", "Amount", "% of Total", "Per sq ft"}}
	for i, g := range a.Costs.Breakdowns() {
		group := a.Costs.Groups.Lines[i].Name
		for _, l := range g.Lines {
			costs.add(Text(group), Text(l.Name), Money(l.Amount),
				Percent(metric.Percent(l.Amount, a.Costs.Total())),
				MoneyRatio(metric.Quotient(l.Amount, a.Parameters.SizeSqft)))
		}
	}
	costs.add(Text("Total"), Text(""), Money(a.Costs.Total()), Percent(metric.Percent(a.Costs.Total(), a.Costs.Total())), MoneyRatio(s.CostPerSqft))

	cashflow := Table{Title: "Development Cashflow", Header: []string{"Month", "Cost", "Revenue", "Cumulative Cost", "Cumulative Revenue", "Net Cashflow"}}
	for _, m := range a.Cashflow.Months {
		cashflow.add(Number(float64(m.Month+1)), Money(m.Cost), Money(m.Revenue), Money(m.CumulativeCost), Money(m.CumulativeRevenue), Money(m.NetCashflow))
	}

	out := []Table{summary, costs, cashflow}
	out = append(out, sensitivityTable("Development Sensitivity", "Profit", "Profit on Cost", a.Sensitivity))
	out = append(out, scenarioTable("Development Scenarios", a.Scenarios))

	programme := Table{Title: "Development Programme", Header: []string{"Item", "Type", "Start", "Finish"}}
	for _, p := range a.Schedule.Phases {
		programme.add(Text(p.Name), Text("Phase"), Text(p.Start), Text(p.Finish))
	}
	for _, m := range a.Schedule.Milestones {
		programme.add(Text(m.Name), Text("Milestone"), Text(m.Date), Text(m.Date))
	}

	benchmarks := Table{Title: "Development Benchmarks", Header: []string{"Metric", "Value", "Industry Benchmark", "Status"}}
	for _, b := range d.Benchmarks {
		benchmarks.add(Text(b.Metric), Text(b.Value), Text(b.Range), Text(b.Rating))
	}

	risks := Table{Title: "Development Risks", Header: []string{"Risk Factor", "Impact", "Probability", "Score", "Level"}}
	for _, r := range d.Risks {
		risks.add(Text(r.Factor), Number(float64(r.Impact)), Number(float64(r.Probability)), Number(float64(r.Score)), Text(r.Level))
	}

	out = append(out, programme, benchmarks,
		insightTable("Development Recommendations", d.Recommendations),
		risks,
		budgetTable("Development Budget", d.Budget))
	return out
}

func clinicTables(c *report.ClinicReport) []Table {
	p := c.Plan
	s := p.Summary

	years := []string{"Metric", "Year 1", "Year 2", "Year 3"}
	summary := Table{Title: "Clinic Summary", Header: years}
	row := func(name string, cell func(i int) Cell) {
		cells := []Cell{Text(name)}
		for i := range s.Years {
			cells = append(cells, cell(i))
		}
		summary.add(cells...)
	}
	row("Revenue", func(i int) Cell { return Money(s.Years[i].Revenue) })
	row("Expenses", func(i int) Cell { return Money(s.Years[i].Expenses) })
	row("EBITDA", func(i int) Cell { return Money(s.Years[i].EBITDA) })
	row("EBITDA Margin", func(i int) Cell { return Percent(s.Years[i].Margin) })
	row("Cumulative EBITDA", func(i int) Cell { return Money(s.Years[i].CumulativeEBITDA) })
	row("ROI", func(i int) Cell { return Percent(s.Years[i].ROI) })

	key := Table{Title: "Clinic Key Metrics", Header: []string{"Metric", "Value"}}
	key.add(Text("Initial Investment"), Money(s.InitialInvestment))
	if s.Payback.Infinite {
		key.add(Text("Payback (months)"), Text(s.Payback.String()))
	} else {
		key.add(Text("Payback (months)"), Number(s.Payback.Months))
	}
	b := s.BreakEven
	key.add(Text("Monthly Fixed Costs"), Money(b.MonthlyFixedCosts))
	key.add(Text("Average Service Price"), Money(b.AverageServicePrice))
	key.add(Text("Contribution Margin per Visit"), Money(b.ContributionMargin))
	key.add(Text("Break-even Visits per Month"), NumberRatio(b.MonthlyVisits))
	key.add(Text("Break-even Visits per Week"), NumberRatio(b.WeeklyVisits))
	key.add(Text("Break-even Visits per Day (6-day week)"), NumberRatio(b.DailyVisits))
	key.add(Text("Break-even Visits per Day (26-day month)"), NumberRatio(b.DailyVisitsMonthBasis))

	investment := Table{Title: "Clinic Investment", Header: []string{"Item", "Amount"}}
	for _, l := range p.Investment.Lines {
		investment.add(Text(l.Name), Money(l.Amount))
	}
	investment.add(Text("Total"), Money(p.Investment.Total))

	revenue := yearlyTable("Clinic Revenue", []analysis.Breakdown{p.Revenue[0].Breakdown(), p.Revenue[1].Breakdown(), p.Revenue[2].Breakdown()})
	expenses := yearlyTable("Clinic Expenses", p.Expenses[:])

	risks := Table{Title: "Clinic Risks", Header: []string{"#", "Risk", "Detail"}}
	for i, r := range c.Risks {
		risks.add(Number(float64(i+1)), Text(r.Title), Text(r.Message))
	}

	return []Table{
		summary, key, investment, revenue, expenses,
		sensitivityTable("Clinic Sensitivity", "Year 1 EBITDA", "EBITDA Margin", p.Sensitivity),
		scenarioTable("Clinic Scenarios", p.Scenarios),
		insightTable("Clinic Recommendations", c.Recommendations),
		risks,
		budgetTable("Clinic Budget", c.Budget),
	}
}

// yearlyTable puts the same-named lines of each year side by side.
func yearlyTable(title string, years []analysis.Breakdown) Table {
	t := Table{Title: title, Header: []string{"Item", "Year 1", "Year 2", "Year 3"}}
	if len(years) == 0 {
		return t
	}
	for _, name := range years[0].Names() {
		cells := []Cell{Text(name)}
		for _, y := range years {
			amount, _ := y.Amount(name)
			cells = append(cells, Money(amount))
		}
		t.add(cells...)
	}
	totals := []Cell{Text("Total")}
	for _, y := range years {
		totals = append(totals, Money(y.Total))
	}
	t.add(totals...)
	return t
}

func sensitivityTable[S any](title, profit, margin string, curves []analysis.Curve[S]) Table {
	t := Table{Title: title, Header: []string{"Variable", "Value", "Unit", profit, margin}}
	for _, c := range curves {
		for _, r := range c.Rows {
			t.add(Text(c.Name), Number(r.Value), Text(c.Unit), Money(r.Profit), Percent(r.Margin))
		}
	}
	return t
}

func scenarioTable[P, S any](title string, results []analysis.Result[P, S]) Table {
	t := Table{Title: title, Header: []string{"Scenario", "Metric", "Base", "Value", "Change"}}
	for _, r := range results {
		for _, d := range r.Deltas {
			t.add(Text(r.Name), Text(d.Metric), NumberRatio(d.Base), NumberRatio(d.Value), changeCell(d))
		}
	}
	return t
}

func changeCell(d analysis.Delta) Cell {
	switch d.Kind {
	case analysis.DeltaRatio:
		return Percent(d.Change)
	case analysis.DeltaPoints:
		return Cell{Kind: KindNumber, Value: d.Change.Value, Undefined: !d.Change.Defined, Text: "pts"}
	default:
		return Cell{Kind: KindNumber, Value: d.Change.Value, Undefined: !d.Change.Defined, Text: "months"}
	}
}

func insightTable(title string, insights []advisory.Insight) Table {
	t := Table{Title: title, Header: []string{"#", "Area", "Recommendation"}}
	for i, in := range insights {
		t.add(Number(float64(i+1)), Text(in.Title), Text(in.Message))
	}
	return t
}

func budgetTable(title string, b budget.Report) Table {
	t := Table{Title: title, Header: []string{"Category", "Budgeted", "Actual", "Variance", "Variance %", "Completion %"}}
	for _, l := range b.Lines {
		t.add(Text(l.Category), Money(l.Budgeted), Money(l.Actual), Money(l.Variance), Percent(l.VariancePct), Percent(metric.Of(l.CompletionPct)))
	}
	t.add(Text("Total"), Money(b.TotalBudget), Money(b.TotalActual), Money(b.Variance), Percent(b.VariancePct), Percent(b.WeightedCompletion))
	t.add(Text(fmt.Sprintf("Status: %s", b.Status)))
	return t
}
