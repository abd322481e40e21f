// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hatchend/feasibility/internal/budget"
	"github.com/hatchend/feasibility/internal/clinic"
	"github.com/hatchend/feasibility/internal/development"
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/datetime"
	"github.com/hatchend/feasibility/pkg/validation"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for feasibility.
type Configuration struct {
	Model       string                 `yaml:"model" json:"model" mapstructure:"model"`
	Logging     LoggingConfig          `yaml:"logging,omitempty" json:"logging,omitempty" mapstructure:"logging"`
	Output      OutputConfig           `yaml:"output,omitempty" json:"output,omitempty" mapstructure:"output"`
	Project     ProjectConfig          `yaml:"project" json:"project" mapstructure:"project"`
	Development development.Parameters `yaml:"development" json:"development" mapstructure:"development"`
	Clinic      clinic.Parameters      `yaml:"clinic" json:"clinic" mapstructure:"clinic"`
	Budget      BudgetConfig           `yaml:"budget" json:"budget" mapstructure:"budget"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty" mapstructure:"level"`                // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format"`             // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format"` // pretty, csv, json, xlsx
	File   string `yaml:"file,omitempty" json:"file,omitempty" mapstructure:"file"`       // required for xlsx
}

// ProjectConfig names the project and dates its programme.
type ProjectConfig struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	StartDate string `yaml:"startDate,omitempty" json:"startDate,omitempty" mapstructure:"startDate"` // YYYY-MM, defaults to the current month
}

// BudgetConfig holds recorded actuals for each model.
type BudgetConfig struct {
	Development []budget.Actual `yaml:"development,omitempty" json:"development,omitempty" mapstructure:"development"`
	Clinic      []budget.Actual `yaml:"clinic,omitempty" json:"clinic,omitempty" mapstructure:"clinic"`
}

// Default returns the configuration used when a file sets nothing: both
// models with their reference parameters, rendered pretty.
func Default() Configuration {
	return Configuration{
		Model:       constants.ModelBoth,
		Output:      OutputConfig{Format: constants.OutputFormatPretty},
		Development: development.Defaults(),
		Clinic:      clinic.Defaults(),
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	defer f.Close()
	return LoadConfigurationFromReader(f)
}

// LoadConfigurationFromReader loads a YAML configuration from r. Every key
// missing from the document takes its value from Default, and any key can
// be overridden from the environment, e.g. FEASIBILITY_DEVELOPMENT_INTERESTRATEPCT.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("unable to encode defaults, %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("unable to load defaults, %w", err)
	}
	if err := v.MergeConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	configuration := Default()
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &configuration, nil
}

// StartMonth resolves the project start date, falling back to the month
// containing now.
func (c *Configuration) StartMonth(now time.Time) (time.Time, error) {
	return datetime.ParseMonth(c.Project.StartDate, now)
}

// Evaluates reports whether the configured model includes the named one.
func (c *Configuration) Evaluates(model string) bool {
	return c.Model == model || c.Model == constants.ModelBoth
}

// Validate returns an error for settings that make the configuration
// unusable: an unknown model or output format, or a malformed start date.
func (c *Configuration) Validate() error {
	if err := validation.ValidateModel(c.Model); err != nil {
		return err
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	if _, err := c.StartMonth(time.Now()); err != nil {
		return fmt.Errorf("invalid project start date: %w", err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Evaluates(constants.ModelDevelopment) {
		w, err := c.Development.Validate()
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		for _, s := range w {
			warnings = append(warnings, "development: "+s)
		}
	}

	if c.Evaluates(constants.ModelClinic) {
		w, err := c.Clinic.Validate()
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		for _, s := range w {
			warnings = append(warnings, "clinic: "+s)
		}
	}

	return append(warnings, c.SettingWarnings()...)
}

// SettingWarnings returns the warnings about settings outside the model
// parameters: budget actuals for a model that is not selected and an xlsx
// output without a file.
func (c *Configuration) SettingWarnings() []string {
	var warnings []string
	if !c.Evaluates(constants.ModelDevelopment) && len(c.Budget.Development) > 0 {
		warnings = append(warnings, "development budget actuals are ignored because the development model is not selected")
	}
	if !c.Evaluates(constants.ModelClinic) && len(c.Budget.Clinic) > 0 {
		warnings = append(warnings, "clinic budget actuals are ignored because the clinic model is not selected")
	}
	if c.Output.Format == constants.OutputFormatXLSX && c.Output.File == "" {
		warnings = append(warnings, "xlsx output requested without output.file; an output file must be given on the command line")
	}
	return warnings
}
