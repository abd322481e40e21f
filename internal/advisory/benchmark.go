package advisory

import (
	"fmt"

	"github.com/hatchend/feasibility/internal/development"
	"github.com/hatchend/feasibility/pkg/format"
	"github.com/hatchend/feasibility/pkg/metric"
)

// Ratings.
const (
	RatingGood    = "Good"
	RatingAverage = "Average"
	RatingPoor    = "Poor"
	RatingNone    = "N/A"
)

// Benchmark rates one development metric against its industry range.
type Benchmark struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Range  string `json:"range"`
	Rating string `json:"rating"`
}

// rateAbove rates a higher-is-better ratio.
func rateAbove(r metric.Ratio, good, average float64) string {
	switch {
	case !r.Defined:
		return RatingNone
	case r.Value >= good:
		return RatingGood
	case r.Value >= average:
		return RatingAverage
	default:
		return RatingPoor
	}
}

func percent(r metric.Ratio) string {
	if !r.Defined {
		return RatingNone
	}
	return fmt.Sprintf("%.2f%%", r.Value)
}

// DevelopmentBenchmarks rates an appraisal's returns and duration.
func DevelopmentBenchmarks(s development.Summary) []Benchmark {
	duration := RatingPoor
	switch {
	case s.DurationMonths <= 24:
		duration = RatingGood
	case s.DurationMonths <= 36:
		duration = RatingAverage
	}

	return []Benchmark{
		{Metric: "Development Profit", Value: format.Currency(s.Profit), Range: "Project Specific", Rating: RatingNone},
		{Metric: "Profit on Cost", Value: percent(s.MarginOnCost), Range: "15-20%", Rating: rateAbove(s.MarginOnCost, 15, 10)},
		{Metric: "Profit on GDV", Value: percent(s.MarginOnGDV), Range: "12-18%", Rating: rateAbove(s.MarginOnGDV, 12, 8)},
		{Metric: "Return on Equity", Value: percent(s.ROE), Range: "20-25%", Rating: rateAbove(s.ROE, 20, 15)},
		{Metric: "Internal Rate of Return (approx.)", Value: percent(s.ApproxIRR), Range: "15-25%", Rating: rateAbove(s.ApproxIRR, 15, 10)},
		{Metric: "Payback Period", Value: fmt.Sprintf("%d months", s.DurationMonths), Range: "24-36 months", Rating: duration},
	}
}
