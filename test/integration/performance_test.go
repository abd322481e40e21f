package integration

import (
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/hatchend/feasibility/internal/config"
	"github.com/hatchend/feasibility/internal/report"
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/output"
	"go.uber.org/zap"
)

// TestRunner is a simple test runner for debugging
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// TestBasicFunctionality tests basic functionality works
func TestBasicFunctionality(t *testing.T) {
	logger := zap.NewNop()

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	r, err := report.GetReport(logger, *conf, time.Now())
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}

	if r.Development == nil {
		t.Fatalf("Expected a development appraisal but got none")
	}

	t.Logf("Successfully generated report %s", r.ID)
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	conf.Model = constants.ModelBoth
	start = time.Now()
	r, err := report.GetReport(logger, *conf, time.Now())
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	evaluateTime := time.Since(start)

	start = time.Now()
	tables := output.Tables(r)
	layoutTime := time.Since(start)

	totalTime := loadTime + evaluateTime + layoutTime

	t.Logf("Performance metrics:")
	t.Logf("  Load config: %v", loadTime)
	t.Logf("  Evaluate models: %v", evaluateTime)
	t.Logf("  Lay out tables: %v", layoutTime)
	t.Logf("  Total time: %v", totalTime)

	if totalTime > 10*time.Second {
		t.Errorf("Total processing time %v exceeds 10 second threshold", totalTime)
	}

	if len(tables) == 0 {
		t.Errorf("Expected report tables, got none")
	}
}

// TestMemoryUsage performs basic memory usage validation
func TestMemoryUsage(t *testing.T) {
	logger := zap.NewNop()

	for i := 0; i < 10; i++ {
		conf, err := config.LoadConfiguration("../test_config.yaml")
		if err != nil {
			t.Fatalf("LoadConfiguration failed on iteration %d: %v", i, err)
		}

		if _, err := report.GetReport(logger, *conf, time.Now()); err != nil {
			t.Fatalf("GetReport failed on iteration %d: %v", i, err)
		}
	}

	t.Log("Successfully completed 10 iterations without memory issues")
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	logger := zap.NewNop()

	var first *report.Report
	for run := 0; run < 3; run++ {
		conf, err := config.LoadConfiguration("../test_config.yaml")
		if err != nil {
			t.Fatalf("LoadConfiguration failed on run %d: %v", run, err)
		}
		conf.Model = constants.ModelBoth

		r, err := report.GetReport(logger, *conf, reportTime)
		if err != nil {
			t.Fatalf("GetReport failed on run %d: %v", run, err)
		}

		if run == 0 {
			first = r
			continue
		}

		if r.ID == first.ID {
			t.Errorf("Run %d: report ID %s repeated", run, r.ID)
		}
		if r.Development.Appraisal.Summary != first.Development.Appraisal.Summary {
			t.Errorf("Run %d: development summary differs", run)
		}
		if !reflect.DeepEqual(r.Development.Appraisal.Cashflow, first.Development.Appraisal.Cashflow) {
			t.Errorf("Run %d: cash flow differs", run)
		}
		if !reflect.DeepEqual(r.Clinic.Plan.Summary, first.Clinic.Plan.Summary) {
			t.Errorf("Run %d: clinic summary differs", run)
		}
		if !reflect.DeepEqual(r.Clinic.Plan.Scenarios, first.Clinic.Plan.Scenarios) {
			t.Errorf("Run %d: clinic scenarios differ", run)
		}
	}

	t.Log("Data consistency verified across multiple runs")
}

// TestConfigurationVariations tests different configuration variations
func TestConfigurationVariations(t *testing.T) {
	logger := zap.NewNop()

	variations := []struct {
		name              string
		modifyConfig      func(*config.Configuration)
		expectDevelopment bool
		expectClinic      bool
	}{
		{
			name:              "Baseline config",
			modifyConfig:      func(c *config.Configuration) {},
			expectDevelopment: true,
		},
		{
			name: "Both models",
			modifyConfig: func(c *config.Configuration) {
				c.Model = constants.ModelBoth
			},
			expectDevelopment: true,
			expectClinic:      true,
		},
		{
			name: "Clinic only",
			modifyConfig: func(c *config.Configuration) {
				c.Model = constants.ModelClinic
			},
			expectClinic: true,
		},
		{
			name: "Longer programme",
			modifyConfig: func(c *config.Configuration) {
				c.Development.DurationMonths = 36
			},
			expectDevelopment: true,
		},
	}

	for _, variation := range variations {
		t.Run(variation.name, func(t *testing.T) {
			conf, err := config.LoadConfiguration("../test_config.yaml")
			if err != nil {
				t.Fatalf("LoadConfiguration failed: %v", err)
			}

			variation.modifyConfig(conf)

			r, err := report.GetReport(logger, *conf, reportTime)
			if err != nil {
				t.Fatalf("GetReport failed: %v", err)
			}

			if (r.Development != nil) != variation.expectDevelopment {
				t.Errorf("Expected development %v, got %v", variation.expectDevelopment, r.Development != nil)
			}
			if (r.Clinic != nil) != variation.expectClinic {
				t.Errorf("Expected clinic %v, got %v", variation.expectClinic, r.Clinic != nil)
			}
			if r.Development != nil && len(r.Development.Appraisal.Cashflow.Months) != conf.Development.DurationMonths {
				t.Errorf("Expected %d cash flow months, got %d", conf.Development.DurationMonths, len(r.Development.Appraisal.Cashflow.Months))
			}
		})
	}
}

func BenchmarkGetReport(b *testing.B) {
	logger := zap.NewNop()
	conf := config.Default()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := report.GetReport(logger, conf, reportTime); err != nil {
			b.Fatalf("GetReport failed: %v", err)
		}
	}
}

func BenchmarkTables(b *testing.B) {
	r, err := report.GetReport(zap.NewNop(), config.Default(), reportTime)
	if err != nil {
		b.Fatalf("GetReport failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = output.Tables(r)
	}
}
