// Package validation holds client-side checks run before any request is sent.
package validation

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
	Value   string
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got: %s)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateProfileID checks the profile identifier used by identify and the
// property increment/decrement operations.
func ValidateProfileID(profileID string) error {
	return requiredField("profileId", profileID)
}

// ValidateEventName checks the name of a tracked event.
func ValidateEventName(name string) error {
	return requiredField("name", name)
}

// ValidateProperty checks the property name for increment/decrement.
func ValidateProperty(property string) error {
	return requiredField("property", property)
}

// requiredField rejects empty and whitespace-only values. Length is left to
// the server.
func requiredField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Message: "is required"}
	}
	return nil
}
