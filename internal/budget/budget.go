// Package budget tracks actual spend or takings against the budget a model
// produced.
package budget

import (
	"math"
	"sort"
	"strings"

	"github.com/hatchend/feasibility/internal/analysis"
	"github.com/hatchend/feasibility/pkg/metric"
)

// Status labels.
const (
	StatusOnBudget    = "On Budget"
	StatusOverBudget  = "Over Budget"
	StatusUnderBudget = "Under Budget"
)

// onBudgetBand is the absolute variance percentage within which a project
// counts as on budget.
const onBudgetBand = 5.0

// Actual is the recorded outturn of one budget category. Categories match
// budget lines case-insensitively. CompletionPct is on the 0-100 scale.
type Actual struct {
	Category      string  `yaml:"category" json:"category" mapstructure:"category"`
	Amount        float64 `yaml:"amount" json:"amount" mapstructure:"amount"`
	CompletionPct float64 `yaml:"completionPct" json:"completionPct" mapstructure:"completionPct"`
}

// Line compares one category's budget with its actual. Variance is budget
// less actual, so a positive variance means less was spent (or earned) than
// planned.
type Line struct {
	Category      string       `json:"category"`
	Budgeted      float64      `json:"budgeted"`
	Actual        float64      `json:"actual"`
	CompletionPct float64      `json:"completionPct"`
	Variance      float64      `json:"variance"`
	VariancePct   metric.Ratio `json:"variancePct"`
}

// Report is a full budget-versus-actual comparison.
type Report struct {
	Lines              []Line       `json:"lines"`
	TotalBudget        float64      `json:"totalBudget"`
	TotalActual        float64      `json:"totalActual"`
	Variance           float64      `json:"variance"`
	VariancePct        metric.Ratio `json:"variancePct"`
	WeightedCompletion metric.Ratio `json:"weightedCompletion"`
	Status             string       `json:"status"`
}

func index(actuals []Actual) map[string]Actual {
	m := make(map[string]Actual, len(actuals))
	for _, a := range actuals {
		m[strings.ToLower(a.Category)] = a
	}
	return m
}

// Track compares each budget line with the actual recorded for its name.
// Categories without an actual are treated as nothing spent yet. A category
// recorded twice keeps its last entry.
func Track(planned analysis.Breakdown, actuals []Actual) Report {
	byName := index(actuals)
	r := Report{Lines: make([]Line, 0, len(planned.Lines))}
	weighted := 0.0
	for _, l := range planned.Lines {
		a := byName[strings.ToLower(l.Name)]
		line := Line{
			Category:      l.Name,
			Budgeted:      l.Amount,
			Actual:        a.Amount,
			CompletionPct: a.CompletionPct,
			Variance:      l.Amount - a.Amount,
		}
		line.VariancePct = metric.Percent(line.Variance, l.Amount)
		r.Lines = append(r.Lines, line)

		r.TotalBudget += l.Amount
		r.TotalActual += a.Amount
		weighted += a.CompletionPct * l.Amount
	}

	r.Variance = r.TotalBudget - r.TotalActual
	r.VariancePct = metric.Percent(r.Variance, r.TotalBudget)
	r.WeightedCompletion = metric.Quotient(weighted, r.TotalBudget)
	r.Status = status(r.VariancePct)
	return r
}

// status classifies a variance. An undefined variance is reported on budget.
func status(variancePct metric.Ratio) string {
	v := variancePct.OrZero()
	switch {
	case math.Abs(v) < onBudgetBand:
		return StatusOnBudget
	case v < 0:
		return StatusOverBudget
	default:
		return StatusUnderBudget
	}
}

// Unknown returns the actual categories that match no budget line, sorted.
func Unknown(planned analysis.Breakdown, actuals []Actual) []string {
	known := make(map[string]bool, len(planned.Lines))
	for _, name := range planned.Names() {
		known[strings.ToLower(name)] = true
	}
	var out []string
	for _, a := range actuals {
		if !known[strings.ToLower(a.Category)] {
			out = append(out, a.Category)
		}
	}
	sort.Strings(out)
	return out
}
