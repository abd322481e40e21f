// Package report evaluates the configured models and gathers their outputs
// with budget tracking and advice into one result.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hatchend/feasibility/internal/advisory"
	"github.com/hatchend/feasibility/internal/analysis"
	"github.com/hatchend/feasibility/internal/budget"
	"github.com/hatchend/feasibility/internal/clinic"
	"github.com/hatchend/feasibility/internal/config"
	"github.com/hatchend/feasibility/internal/development"
	"github.com/hatchend/feasibility/pkg/constants"
	"go.uber.org/zap"
)

// Report holds every evaluated model for one configuration.
type Report struct {
	ID          string             `json:"id"`
	Project     string             `json:"project,omitempty"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Model       string             `json:"model"`
	Warnings    []string           `json:"warnings,omitempty"`
	Development *DevelopmentReport `json:"development,omitempty"`
	Clinic      *ClinicReport      `json:"clinic,omitempty"`
}

// DevelopmentReport is a development appraisal with its advice and budget.
type DevelopmentReport struct {
	Appraisal       *development.Output  `json:"appraisal"`
	Benchmarks      []advisory.Benchmark `json:"benchmarks"`
	Recommendations []advisory.Insight   `json:"recommendations"`
	Risks           []advisory.Risk      `json:"risks"`
	Budget          budget.Report        `json:"budget"`
}

// ClinicReport is a clinic business plan with its advice and revenue budget.
type ClinicReport struct {
	Plan            *clinic.Output     `json:"plan"`
	Recommendations []advisory.Insight `json:"recommendations"`
	Risks           []advisory.Insight `json:"risks"`
	Budget          budget.Report      `json:"budget"`
}

// ErrInvalidConfiguration is returned by GetReport for a configuration that
// selects an unknown model or output format or carries a malformed start
// date.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// GetReport evaluates every model the configuration selects. now dates the
// report and stands in for a missing project start date.
func GetReport(logger *zap.Logger, conf config.Configuration, now time.Time) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	start, err := conf.StartMonth(now)
	if err != nil {
		return nil, err
	}

	r := &Report{
		ID:          uuid.NewString(),
		Project:     conf.Project.Name,
		GeneratedAt: now,
		Model:       conf.Model,
	}
	logger.Debug("generating report",
		zap.String("op", "report.GetReport"),
		zap.String("id", r.ID),
		zap.String("model", conf.Model),
		zap.String("start", start.Format(config.DateTimeLayout)),
	)

	if conf.Evaluates(constants.ModelDevelopment) {
		d, warnings, err := GetDevelopmentReport(logger, conf.Development, conf.Budget.Development, start)
		if err != nil {
			return nil, err
		}
		r.Development = d
		r.Warnings = append(r.Warnings, warnings...)
	}

	if conf.Evaluates(constants.ModelClinic) {
		c, warnings, err := GetClinicReport(logger, conf.Clinic, conf.Budget.Clinic)
		if err != nil {
			return nil, err
		}
		r.Clinic = c
		r.Warnings = append(r.Warnings, warnings...)
	}

	r.Warnings = append(r.Warnings, conf.SettingWarnings()...)
	return r, nil
}

// GetDevelopmentReport evaluates one appraisal. The budget is its cost
// groups.
func GetDevelopmentReport(logger *zap.Logger, p development.Parameters, actuals []budget.Actual, start time.Time) (*DevelopmentReport, []string, error) {
	out, err := development.NewEngine(logger).EvaluateAt(p, start)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to evaluate development: %w", err)
	}

	warnings := prefixed("development", out.Warnings)
	warnings = append(warnings, unknownActuals(logger, "development", out.Costs.Groups, actuals)...)

	return &DevelopmentReport{
		Appraisal:       out,
		Benchmarks:      advisory.DevelopmentBenchmarks(out.Summary),
		Recommendations: advisory.DevelopmentRecommendations(p, out.Summary),
		Risks:           advisory.DevelopmentRisks(),
		Budget:          budget.Track(out.Costs.Groups, actuals),
	}, warnings, nil
}

// GetClinicReport evaluates one business plan. The budget is year-one
// service revenue.
func GetClinicReport(logger *zap.Logger, p clinic.Parameters, actuals []budget.Actual) (*ClinicReport, []string, error) {
	out, err := clinic.NewEngine(logger).Evaluate(p)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to evaluate clinic: %w", err)
	}

	planned := out.Revenue[0].ServiceBreakdown()
	warnings := prefixed("clinic", out.Warnings)
	warnings = append(warnings, unknownActuals(logger, "clinic", planned, actuals)...)

	return &ClinicReport{
		Plan:            out,
		Recommendations: advisory.ClinicRecommendations(p, out.Revenue, out.Summary),
		Risks:           advisory.ClinicRisks(),
		Budget:          budget.Track(planned, actuals),
	}, warnings, nil
}

func prefixed(model string, warnings []string) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, model+": "+w)
	}
	return out
}

func unknownActuals(logger *zap.Logger, model string, planned analysis.Breakdown, actuals []budget.Actual) []string {
	var warnings []string
	for _, name := range budget.Unknown(planned, actuals) {
		logger.Warn("budget actual matches no category",
			zap.String("op", "report.unknownActuals"),
			zap.String("model", model),
			zap.String("category", name),
		)
		warnings = append(warnings, fmt.Sprintf("%s: budget actual %q matches no category", model, name))
	}
	return warnings
}
