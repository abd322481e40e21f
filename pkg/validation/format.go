// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/hatchend/feasibility/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, constants.OutputFormatXLSX:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON,
		constants.OutputFormatXLSX, format)
}

// ValidateModel checks that the model selector names a known model.
func ValidateModel(model string) error {
	switch model {
	case constants.ModelDevelopment, constants.ModelClinic, constants.ModelBoth:
		return nil
	}
	return fmt.Errorf("expected model of %s, %s or %s, got %s",
		constants.ModelDevelopment, constants.ModelClinic, constants.ModelBoth, model)
}
