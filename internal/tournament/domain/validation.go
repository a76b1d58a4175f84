package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation codes attached to field errors.
const (
	// CodeRequired marks a missing required field.
	CodeRequired = "required"
	// CodeOutOfRange marks a value outside the bounds its parent allows.
	CodeOutOfRange = "out_of_range"
	// CodeMismatch marks a reference that does not point at its parent.
	CodeMismatch = "mismatch"
)

// FieldError describes a single validation problem scoped to one field of
// one entity. Validation errors are advisory: they never block edits.
type FieldError struct {
	// ObjectID identifies the entity the error belongs to. Nil when the
	// entity has no id yet.
	ObjectID uuid.UUID
	Field    string
	Code     string
	Message  string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors aggregates field errors collected across a validation traversal.
// A nil or empty slice means the validated tree is fully valid.
type Errors []FieldError

// Error implements the error interface.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation passed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(e), strings.Join(parts, "; "))
}

// requiredError builds a CodeRequired field error.
func requiredError(objectID uuid.UUID, field string) FieldError {
	return FieldError{ObjectID: objectID, Field: field, Code: CodeRequired}
}

// rangeError builds a CodeOutOfRange field error with a message.
func rangeError(objectID uuid.UUID, field, message string) FieldError {
	return FieldError{ObjectID: objectID, Field: field, Code: CodeOutOfRange, Message: message}
}

// mismatchError builds a CodeMismatch field error with a message.
func mismatchError(objectID uuid.UUID, field, message string) FieldError {
	return FieldError{ObjectID: objectID, Field: field, Code: CodeMismatch, Message: message}
}
