// Package constants provides shared constants for the feasibility application.
package constants

// DateTimeLayout is the format expected in config files for the project start
// month and is also the output date format for schedules.
const DateTimeLayout = "2006-01"

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// WeeksPerYear is the number of operating weeks assumed per year
	WeeksPerYear = 52

	// WeeksPerMonth is the average number of weeks in a month
	WeeksPerMonth = 4.33

	// OperatingDaysPerWeek is the number of trading days assumed per week
	OperatingDaysPerWeek = 6

	// OperatingDaysPerMonth is the number of trading days assumed per month
	OperatingDaysPerMonth = 26

	// ProjectionYears is the length of the clinic projection
	ProjectionYears = 3
)

// Financial constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 penny)
	CurrencyTolerance = 0.01

	// RatioTolerance is the relative tolerance used when snapping a sweep grid
	// point onto its base value
	RatioTolerance = 1e-9
)

// Analysis constants
const (
	// SweepPoints is the number of evenly spaced values in a sensitivity sweep
	SweepPoints = 9

	// ScenarioBase is the name of the unperturbed scenario
	ScenarioBase = "Base"

	// ScenarioOptimistic is the name of the favourable scenario
	ScenarioOptimistic = "Optimistic"

	// ScenarioPessimistic is the name of the adverse scenario
	ScenarioPessimistic = "Pessimistic"
)

// Model selection constants
const (
	// ModelDevelopment selects the development appraisal
	ModelDevelopment = "development"

	// ModelClinic selects the clinic business plan
	ModelClinic = "clinic"

	// ModelBoth evaluates both models
	ModelBoth = "both"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatXLSX is the Excel workbook output format
	OutputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "FEASIBILITY"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
