// Package validation validates configuration structs through struct tags
// using go-playground/validator.
//
//	type RegistryConfig struct {
//	    OnMissing string `mapstructure:"on_missing" validate:"oneof=exit panic"`
//	}
//	err := validation.Validate(cfg)
//
// Failures are returned as *errors.AppError with code INVALID_CONFIG and a
// per-field breakdown under the "fields" detail key.
package validation
