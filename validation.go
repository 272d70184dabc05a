package sysdialog

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/errors"
)

// validate is a package-level singleton for better performance.
// Creating a new validator on each call is expensive; reusing is recommended.
var validate = validator.New()

// ValidateConfig checks cfg against its validation tags. The returned
// *errors.ConfigError names the first offending field.
func ValidateConfig(cfg *entities.Config) error {
	if cfg == nil {
		return &errors.ConfigError{Err: stderrors.New("config is nil")}
	}
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &errors.ConfigError{Field: fieldErrs[0].Namespace(), Err: err}
		}
		return &errors.ConfigError{Err: err}
	}
	return nil
}

// ApplyOverrides merges loosely typed key/value overrides (from flags or
// environment) into cfg and validates the result. Keys use the config's JSON names.
func ApplyOverrides(cfg *entities.Config, overrides map[string]any) error {
	if len(overrides) == 0 {
		return ValidateConfig(cfg)
	}

	// 1. Convert the map to JSON bytes
	jsonBytes, err := json.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("failed to marshal overrides: %w", err)
	}

	// 2. Unmarshal over the existing config so untouched fields survive
	if err := json.Unmarshal(jsonBytes, cfg); err != nil {
		return &errors.ConfigError{Err: fmt.Errorf("failed to apply overrides: %w", err)}
	}

	// 3. Validate the merged struct
	return ValidateConfig(cfg)
}
