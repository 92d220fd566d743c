package generation

import (
	"fmt"
)

// SchemaViolationError is returned when generated output does not conform to
// the requested schema.
type SchemaViolationError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema violation in %s: %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("schema violation in %s: %s", e.Schema, e.Message)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Cause
}

// ServiceError is a transient failure talking to the model provider:
// transport errors, provider errors, timeouts. No retry is attempted.
type ServiceError struct {
	Schema  string
	Timeout bool
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("generation of %s timed out: %v", e.Schema, e.Cause)
	}
	return fmt.Sprintf("generation of %s failed: %v", e.Schema, e.Cause)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
