package verifier

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Registration is the client-side form submitted to the verifier
// registration endpoint. Validation runs locally before any network call;
// a form that fails validation never reaches the backend.
type Registration struct {
	Name            string   `json:"name" validate:"required,min=2"`
	ContactNumber   string   `json:"contactNumber" validate:"required,in_phone"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	AadhaarNumber   string   `json:"aadhaarNumber" validate:"required,aadhaar"`
	Age             int      `json:"age" validate:"required,gte=18,lte=65"`
	Gender          string   `json:"gender" validate:"omitempty,oneof=male female other"`
	Village         string   `json:"village" validate:"required"`
	Taluka          string   `json:"taluka" validate:"required"`
	District        string   `json:"district" validate:"required"`
	Pincode         string   `json:"pincode" validate:"required,pincode"`
	AllocatedTaluka []string `json:"allocatedTaluka" validate:"required,min=1,dive,required"`
}

var (
	phoneRe   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	aadhaarRe = regexp.MustCompile(`^[0-9]{12}$`)
	pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// RegisterCustomValidators registers the form-level validation rules.
// Must be called before validating a Registration.
func RegisterCustomValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"in_phone": func(fl validator.FieldLevel) bool { return phoneRe.MatchString(fl.Field().String()) },
		"aadhaar":  func(fl validator.FieldLevel) bool { return aadhaarRe.MatchString(fl.Field().String()) },
		"pincode":  func(fl validator.FieldLevel) bool { return pincodeRe.MatchString(fl.Field().String()) },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}

// Validate validates the registration form and returns field-level
// error messages joined into a single error.
func (r *Registration) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterCustomValidators(v); err != nil {
		return err
	}
	if err := v.Struct(r); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// Normalize lowercases the location fields the way the backend stores
// them, so server-side uniqueness and filtering behave consistently.
func (r *Registration) Normalize() {
	r.Village = strings.ToLower(strings.TrimSpace(r.Village))
	r.Taluka = strings.ToLower(strings.TrimSpace(r.Taluka))
	r.District = strings.ToLower(strings.TrimSpace(r.District))
	for i, t := range r.AllocatedTaluka {
		r.AllocatedTaluka[i] = strings.ToLower(strings.TrimSpace(t))
	}
}

// formatValidationErrors converts validator.ValidationErrors to
// user-facing field messages.
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
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: required", e.Field())
	case "email":
		return fmt.Sprintf("%s: must be a valid email address", e.Field())
	case "in_phone":
		return fmt.Sprintf("%s: must be a 10-digit Indian mobile number", e.Field())
	case "aadhaar":
		return fmt.Sprintf("%s: must be a 12-digit Aadhaar number", e.Field())
	case "pincode":
		return fmt.Sprintf("%s: must be a 6-digit pincode", e.Field())
	case "gte", "lte":
		return fmt.Sprintf("%s: must be between 18 and 65", e.Field())
	case "min":
		return fmt.Sprintf("%s: too short (min %s)", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s: failed %s validation", e.Field(), e.Tag())
	}
}
