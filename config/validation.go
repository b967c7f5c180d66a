package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = validator.New()

// ValidateConfig checks the struct constraints and then the requirements of
// the environment the config was loaded for.
func ValidateConfig(cfg *Config) error {
	var problems []string

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describe(fe).Error())
		}
	}

	for _, ve := range environmentRules(cfg) {
		problems = append(problems, ve.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "\n"))
	}
	return nil
}

func describe(fe validator.FieldError) ValidationError {
	msg := fmt.Sprintf("failed %q", fe.Tag())
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "required_if", "required_with":
		msg = fmt.Sprintf("is required when %s is set", fe.Param())
	case "oneof":
		msg = fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return ValidationError{Field: fe.Field(), Message: msg}
}

// environmentRules are the checks that depend on where the service runs.
func environmentRules(cfg *Config) []ValidationError {
	var out []ValidationError
	switch cfg.Environment {
	case Production:
		if cfg.DBDriver != "postgres" {
			out = append(out, ValidationError{Field: "DBDriver", Message: "production requires postgres"})
		}
		if len(cfg.JWTSecret) < 32 {
			out = append(out, ValidationError{Field: "JWTSecret", Message: "jwt_secret must be at least 32 bytes in production"})
		}
		if cfg.DBPassword == "" {
			out = append(out, ValidationError{Field: "DBPassword", Message: "db_password secret is required"})
		}
	case CI:
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			out = append(out, ValidationError{Field: "DBPassword", Message: "TEST_DB_PASSWORD environment variable is required in CI environment"})
		}
	}
	return out
}
