package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration and returns a readable error listing
// every violation. Validation fails fast: the gateway must not start
// with invalid config.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	lines := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		lines = append(lines, describeFieldError(fe))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

// describeFieldError renders one violation as "<path> <problem>".
func describeFieldError(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// fieldPath converts "Config.Server.Port" to "server.port".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}
