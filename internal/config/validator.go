package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validate validates the PortalConfig using struct tags plus the
// cross-field duration checks, with actionable error messages.
func (c *PortalConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if err := validateDuration("api.timeout", c.API.Timeout); err != nil {
		return err
	}
	if err := validateDuration("cache.ttl", c.Cache.TTL); err != nil {
		return err
	}

	return nil
}

func validateDuration(key, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", key, value)
	}
	if d <= 0 {
		return fmt.Errorf("%s: must be positive, got %q", key, value)
	}
	return nil
}

// formatValidationErrors converts validator.ValidationErrors to
// user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

func formatSingleValidationError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "portalconfig.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: required (set it in smartfarmer.yaml or via SMARTFARMER_* env)", field)
	case "url":
		return fmt.Sprintf("%s: must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", field, e.Param())
	default:
		return fmt.Sprintf("%s: failed %s validation", field, e.Tag())
	}
}
