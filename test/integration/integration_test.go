package integration

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hatchend/feasibility/internal/analysis"
	"github.com/hatchend/feasibility/internal/clinic"
	"github.com/hatchend/feasibility/internal/config"
	"github.com/hatchend/feasibility/internal/development"
	"github.com/hatchend/feasibility/internal/report"
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/output"
	"github.com/hatchend/feasibility/pkg/testutil"
	"github.com/hatchend/feasibility/pkg/validation"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var reportTime = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func loadTestReport(t *testing.T) *report.Report {
	t.Helper()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	r, err := report.GetReport(zap.NewNop(), *conf, reportTime)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	return r
}

// TestMainIntegrationBaseline runs the test configuration exactly as the CLI
// does and checks the headline figures.
func TestMainIntegrationBaseline(t *testing.T) {
	r := loadTestReport(t)

	if r.Model != constants.ModelDevelopment || r.Clinic != nil {
		t.Fatalf("expected a development-only report, got model %s", r.Model)
	}
	a := r.Development.Appraisal
	if a.Revenue.InvestmentValue == nil {
		t.Fatal("investment value should be defined at a 5% yield")
	}

	baselineChecks := []struct {
		name        string
		actual      float64
		expectedVal float64
		tolerance   float64
	}{
		{"Sales value", a.Revenue.SalesValue, 18000000, 0.01},
		{"Investment value", *a.Revenue.InvestmentValue, 22800000, 0.01},
		{"GDV", a.Summary.GDV, 22800000, 0.01},
		{"Total cost", a.Summary.TotalCost, 17981387.575, 0.01},
		{"Profit", a.Summary.Profit, 4818612.425, 0.01},
		{"Profit on cost", a.Summary.MarginOnCost.Value, 26.797778, 1e-5},
		{"Loan", a.Summary.LoanAmount, 11490780, 0.01},
	}

	for _, check := range baselineChecks {
		t.Run(check.name, func(t *testing.T) {
			if math.Abs(check.actual-check.expectedVal) > check.tolerance {
				t.Errorf("expected %.6f, got %.6f", check.expectedVal, check.actual)
			}
		})
	}

	if a.Summary.Basis != development.BasisInvestment {
		t.Errorf("expected investment basis at a 5%% yield on this scheme, got %s", a.Summary.Basis)
	}
	if len(a.Cashflow.Months) != 30 {
		t.Errorf("expected 30 cash flow months, got %d", len(a.Cashflow.Months))
	}
	if a.Schedule.Phases[0].Start != "2027-01" {
		t.Errorf("expected programme to start 2027-01, got %s", a.Schedule.Phases[0].Start)
	}

	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "Landscaping") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning for the unknown Landscaping actual, got %v", r.Warnings)
	}
}

// TestCSVOutputFormat checks the CSV rendering of the test configuration.
func TestCSVOutputFormat(t *testing.T) {
	r := loadTestReport(t)

	var buf bytes.Buffer
	if err := output.Write(&buf, constants.OutputFormatCSV, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) == 0 || strings.Join(records[0], ",") != "table,Metric,Value" {
		t.Fatalf("unexpected first record %v", records[0])
	}

	want := strconv.FormatFloat(r.Development.Appraisal.Summary.TotalCost, 'f', 2, 64)
	var tables []string
	found := false
	for _, rec := range records {
		if rec[0] == "table" {
			tables = append(tables, rec[1])
			continue
		}
		if rec[0] == "Development Summary" && rec[1] == "Total Development Cost" {
			found = rec[2] == want
		}
		if strings.HasPrefix(rec[0], "Clinic") {
			t.Errorf("unexpected clinic row %v", rec)
		}
	}
	if !found {
		t.Errorf("expected total development cost %s in CSV", want)
	}
	if len(tables) != len(output.Tables(r)) {
		t.Errorf("expected %d table headers, got %d", len(output.Tables(r)), len(tables))
	}
}

// TestPrettyOutputFormat checks the pretty rendering carries every table.
func TestPrettyOutputFormat(t *testing.T) {
	r := loadTestReport(t)

	var buf bytes.Buffer
	if err := output.Write(&buf, constants.OutputFormatPretty, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, tbl := range output.Tables(r) {
		if !strings.Contains(out, "--- "+tbl.Title+" ---") {
			t.Errorf("pretty output missing table %s", tbl.Title)
		}
	}
	if !strings.Contains(out, "--- Warnings ---") {
		t.Error("pretty output should list warnings")
	}
}

// TestWorkbookOutput checks the workbook has one sheet per table.
func TestWorkbookOutput(t *testing.T) {
	r := loadTestReport(t)

	var buf bytes.Buffer
	if err := output.Write(&buf, constants.OutputFormatXLSX, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	tables := output.Tables(r)
	if len(sheets) != len(tables) {
		t.Fatalf("expected %d sheets, got %d", len(tables), len(sheets))
	}
	for i, tbl := range tables {
		if sheets[i] != output.SheetName(tbl.Title) {
			t.Errorf("sheet %d = %s, want %s", i, sheets[i], tbl.Title)
		}
	}
}

// TestConfigurationValidation tests validation of different configuration scenarios
func TestConfigurationValidation(t *testing.T) {
	tests := []struct {
		name        string
		setupConfig func() config.Configuration
		expectError error
	}{
		{
			name:        "Valid default configuration",
			setupConfig: config.Default,
		},
		{
			name: "Unknown model",
			setupConfig: func() config.Configuration {
				c := config.Default()
				c.Model = "retail"
				return c
			},
			expectError: report.ErrInvalidConfiguration,
		},
		{
			name: "Invalid start date",
			setupConfig: func() config.Configuration {
				c := config.Default()
				c.Project.StartDate = "2027-13"
				return c
			},
			expectError: report.ErrInvalidConfiguration,
		},
		{
			name: "Zero development duration",
			setupConfig: func() config.Configuration {
				c := config.Default()
				c.Development.DurationMonths = 0
				return c
			},
			expectError: validation.ErrNonPositiveDomain,
		},
		{
			name: "Zero clinic opening hours",
			setupConfig: func() config.Configuration {
				c := config.Default()
				c.Model = constants.ModelClinic
				c.Clinic.OperatingHoursWeekly = 0
				return c
			},
			expectError: validation.ErrNonPositiveDomain,
		},
		{
			name: "Zero clinic hours ignored for development only",
			setupConfig: func() config.Configuration {
				c := config.Default()
				c.Model = constants.ModelDevelopment
				c.Clinic.OperatingHoursWeekly = 0
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := report.GetReport(zap.NewNop(), tt.setupConfig(), reportTime)
			if tt.expectError == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectError) {
				t.Errorf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

// TestEndToEndBothModels evaluates both reference models and cross-checks
// scenarios and rendered tables against direct recomputation.
func TestEndToEndBothModels(t *testing.T) {
	r, err := report.GetReport(zap.NewNop(), config.Default(), reportTime)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}

	d := r.Development.Appraisal
	pes := analysis.Find(d.Scenarios, constants.ScenarioPessimistic)
	if pes == nil {
		t.Fatal("missing pessimistic development scenario")
	}
	if delta := testutil.FindDelta(pes.Deltas, "Profit"); delta == nil || !delta.Change.Defined || delta.Change.Value >= 0 {
		t.Errorf("pessimistic profit change should be negative, got %+v", delta)
	}
	if delta := testutil.FindDelta(pes.Deltas, "Duration"); delta == nil || delta.Change.Value != 6 {
		t.Errorf("pessimistic duration should add 6 months, got %+v", delta)
	}

	tables := output.Tables(r)
	profit := testutil.FindRow(testutil.FindTable(tables, "Development Summary"), "Development Profit")
	if profit == nil || math.Abs(profit[1].Value+242238.4) > 0.01 || profit[1].Value != d.Summary.Profit {
		t.Errorf("summary table profit row = %+v, want %.2f", profit, d.Summary.Profit)
	}

	c := r.Clinic.Plan
	opt := analysis.Find(c.Scenarios, constants.ScenarioOptimistic)
	if opt == nil {
		t.Fatal("missing optimistic clinic scenario")
	}
	if delta := testutil.FindDelta(opt.Deltas, "Year 1 EBITDA"); delta == nil || delta.Change.Value <= 0 {
		t.Errorf("optimistic year one EBITDA change should be positive, got %+v", delta)
	}
	payback := testutil.FindRow(testutil.FindTable(tables, "Clinic Key Metrics"), "Payback (months)")
	if payback == nil || payback[1].Value != c.Summary.Payback.Months {
		t.Errorf("key metrics payback row = %+v, want %.4f", payback, c.Summary.Payback.Months)
	}
	direct, err := clinic.Recompute(clinic.Defaults())
	if err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}
	if c.Summary.Years[0].EBITDA != direct.Years[0].EBITDA {
		t.Error("plan summary should match a direct recompute")
	}
}
