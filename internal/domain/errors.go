package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict indicates a concurrent write won the compare-and-set.
	ErrConflict = errors.New("concurrent modification")
	// ErrForbidden indicates the caller is authenticated but lacks the required role or ownership.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState indicates the operation is not allowed in the entity's current lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrInsufficientStock indicates a requested quantity exceeds the available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError groups field-level input problems.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, ", ")
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
