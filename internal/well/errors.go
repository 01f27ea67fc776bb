package well

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is the sentinel every validation failure in this
// package unwraps to. Callers should test with errors.Is rather than
// inspecting messages.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError describes which input was rejected and why.
type ParameterError struct {
	// Name is the parameter name as exposed to API clients
	// (e.g. "mass", "boundaryLength", "quantumCount", "n").
	Name string

	// Value is the rejected value, kept for error messages and logs.
	Value any

	// Reason is a short human-readable constraint, e.g. "must be > 0".
	Reason string
}

// Error satisfies the error interface.
func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %v)", ErrInvalidParameter, e.Name, e.Reason, e.Value)
}

// Unwrap lets errors.Is(err, ErrInvalidParameter) match any ParameterError.
func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func invalid(name string, value any, reason string) error {
	return &ParameterError{Name: name, Value: value, Reason: reason}
}
