package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrSeatsUnavailable   = errors.New("not enough available seats")
	ErrBookingNotPending  = errors.New("only pending bookings can be modified")
	ErrForbidden          = errors.New("operation not permitted")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrReferenced         = errors.New("row is referenced by other records")
)

// ValidationError reports bad input keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// MissingFieldsError marks a profile update that would leave required
// fields empty.
func MissingFieldsError(fields []string) *ValidationError {
	ve := &ValidationError{Fields: make(map[string]string, len(fields))}
	for _, f := range fields {
		ve.Fields[f] = "must not be empty"
	}
	return ve
}
