package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator library
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Validate validates a struct
func (v *Validator) Validate(data interface{}) error {
	return v.validate.Struct(data)
}

// ValidateEmail validates an email string
func (v *Validator) ValidateEmail(email string) error {
	return v.validate.Var(email, "required,email")
}

// ValidatePassword validates a password against the minimum length policy
func (v *Validator) ValidatePassword(password string, minLength int) error {
	if err := v.validate.Var(password, fmt.Sprintf("required,min=%d", minLength)); err != nil {
		return fmt.Errorf("password must be at least %d characters", minLength)
	}
	return nil
}

// ValidatePhone performs a basic phone format check: an optional leading +
// followed by digits, spaces and dashes.
func (v *Validator) ValidatePhone(phone string) error {
	stripped := strings.TrimPrefix(phone, "+")
	stripped = strings.ReplaceAll(stripped, " ", "")
	stripped = strings.ReplaceAll(stripped, "-", "")
	if err := v.validate.Var(stripped, "required,numeric"); err != nil {
		return fmt.Errorf("invalid phone format")
	}
	return nil
}

// ValidateResetCode validates a password-reset code
func (v *Validator) ValidateResetCode(code string, length int) error {
	if len(code) != length {
		return fmt.Errorf("reset code must be exactly %d digits", length)
	}
	return v.validate.Var(code, "numeric")
}
