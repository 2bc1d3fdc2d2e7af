// Package config provides configuration management for the BetPulse application.
package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("sport", validateSport)
	v.RegisterValidation("sportkeys", validateSportKeys)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateSport validates a sport identifier field
func validateSport(fl validator.FieldLevel) bool {
	return isValidSport(fl.Field().String())
}

// validateSportKeys validates that map keys are valid sport identifiers
func validateSportKeys(fl validator.FieldLevel) bool {
	channels, ok := fl.Field().Interface().(map[string]string)
	if !ok {
		return false
	}

	// Check if channels map is not empty
	if len(channels) == 0 {
		return false
	}

	// Check if all keys are valid sports
	for sport, channel := range channels {
		if !isValidSport(sport) {
			return false
		}
		if channel == "" {
			return false
		}
	}
	return true
}

func isValidSport(sport string) bool {
	switch sport {
	case "cs2", "khl":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
		if !cfg.Features.PublishingEnabled {
			return fmt.Errorf("publishing must be enabled in production")
		}
	}

	// Every enabled source's sport must have a publishing channel
	for _, source := range cfg.DataIngestion.Sources {
		if !source.Enabled {
			continue
		}
		if cfg.GetChannel(source.Sport) == "" {
			return fmt.Errorf("no telegram channel configured for sport '%s'", source.Sport)
		}
	}

	// Validate the confidence gate
	if cfg.ML.ConfidenceThreshold < 0.5 || cfg.ML.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be between 0.5 and 1")
	}

	// Validate signal gates against retention
	if cfg.Signals.MaxMatchAgeHours > cfg.Signals.RetentionDays*24 {
		return fmt.Errorf("max_match_age_hours cannot exceed retention window")
	}

	// Validate connection pool settings
	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "sport":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: cs2, khl\n", field)
		case "sportkeys":
			errMsg += fmt.Sprintf("- Field '%s' must map sport identifiers to non-empty channels\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		// Production must have SSL enabled
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}

		// Production should not have test credentials
		if isTestCredential(cfg.Telegram.BotToken) {
			return fmt.Errorf("production environment should not use a test Telegram bot token")
		}
	}

	if cfg.IsDevelopment() {
		// Development keeps publishing off unless simulation is on
		if cfg.Features.PublishingEnabled && !cfg.Features.SimulationEnabled {
			return fmt.Errorf("live publishing should be disabled in development mode")
		}
	}

	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
