package parsing

import (
	"fmt"
	"strings"
)

// ValidationError represents invalid input to a parsing stage
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// GroundingViolation is one extracted value absent from the source text
type GroundingViolation struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// GroundingError is returned when the parser output contains facts that do
// not appear in the input text.
type GroundingError struct {
	Violations []GroundingViolation
}

func (e *GroundingError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s=%q", v.Field, v.Value))
	}
	return fmt.Sprintf("background output not grounded in input: %s", strings.Join(parts, ", "))
}
