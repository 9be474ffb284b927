package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kbukum/rivet/errors"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s is usable as a module, substep or
// checkpoint name. Names end up in file names and tool scripts.
func IsIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{
		"fields": v.errors,
	}

	return appErr
}

// Identifier checks that value is a non-empty identifier.
func (v *Validator) Identifier(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
		return v
	}
	if !IsIdentifier(value) {
		v.AddError(field, fmt.Sprintf("%q must be an identifier (letters, digits, underscore)", value))
	}
	return v
}

// Unique checks that no value appears twice. Each duplicate is reported once.
func (v *Validator) Unique(field string, values []string) *Validator {
	seen := make(map[string]int, len(values))
	for _, val := range values {
		seen[val]++
		if seen[val] == 2 {
			v.AddError(field, fmt.Sprintf("%q appears more than once", val))
		}
	}
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}
