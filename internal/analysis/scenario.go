package analysis

import (
	"fmt"

	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/metric"
	"go.uber.org/zap"
)

// DeltaKind says how a metric's change against the base case is expressed.
type DeltaKind string

const (
	// DeltaRatio is the percent change 100*(value/base-1), used for currency
	// and count metrics.
	DeltaRatio DeltaKind = "ratio"

	// DeltaPoints is the simple difference value-base, used for metrics that
	// are already percentages.
	DeltaPoints DeltaKind = "points"

	// DeltaMonths is the simple difference in months, used for durations and
	// payback periods.
	DeltaMonths DeltaKind = "months"
)

// Scenario is a named transform of the base parameter set. A nil transform
// is the identity.
type Scenario[P any] struct {
	Name      string
	Transform Transform[P]
}

// Metric extracts one comparable figure from a summary. Value returns an
// undefined ratio when the figure itself is undefined.
type Metric[S any] struct {
	Name  string
	Kind  DeltaKind
	Value func(S) metric.Ratio
}

// Delta compares one metric against the base case.
type Delta struct {
	Metric string       `json:"metric"`
	Kind   DeltaKind    `json:"kind"`
	Base   metric.Ratio `json:"base"`
	Value  metric.Ratio `json:"value"`
	Change metric.Ratio `json:"change"`
}

// Result is one fully recomputed scenario.
type Result[P, S any] struct {
	Name       string  `json:"name"`
	Parameters P       `json:"parameters"`
	Summary    S       `json:"summary"`
	Deltas     []Delta `json:"deltas"`
}

// Compare computes the delta of one metric between a scenario and the base.
func Compare(name string, kind DeltaKind, base, value metric.Ratio) Delta {
	d := Delta{Metric: name, Kind: kind, Base: base, Value: value}
	switch kind {
	case DeltaRatio:
		if base.Defined && value.Defined && base.Value != 0 {
			d.Change = metric.Of(100 * (value.Value/base.Value - 1))
		}
	default:
		d.Change = value.Sub(base)
	}
	return d
}

// RunScenarios evaluates the base case and every named scenario through the
// same recompute function and reports each scenario's deltas against the
// base. The base case is always the first result.
func RunScenarios[P, S any](logger *zap.Logger, base P, scenarios []Scenario[P], metrics []Metric[S], recompute Recompute[P, S]) ([]Result[P, S], error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseSummary, err := recompute(base)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", constants.ScenarioBase, err)
	}

	results := []Result[P, S]{{
		Name:       constants.ScenarioBase,
		Parameters: base,
		Summary:    baseSummary,
		Deltas:     deltas(metrics, baseSummary, baseSummary),
	}}

	for _, sc := range scenarios {
		if sc.Name == constants.ScenarioBase {
			continue
		}
		params := base
		if sc.Transform != nil {
			params = sc.Transform(base)
		}
		summary, err := recompute(params)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		results = append(results, Result[P, S]{
			Name:       sc.Name,
			Parameters: params,
			Summary:    summary,
			Deltas:     deltas(metrics, baseSummary, summary),
		})
	}

	logger.Debug("scenarios evaluated",
		zap.String("op", "analysis.RunScenarios"),
		zap.Int("scenarios", len(results)),
	)
	return results, nil
}

func deltas[S any](metrics []Metric[S], base, value S) []Delta {
	out := make([]Delta, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, Compare(m.Name, m.Kind, m.Value(base), m.Value(value)))
	}
	return out
}

// Find returns the named result, or nil.
func Find[P, S any](results []Result[P, S], name string) *Result[P, S] {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
