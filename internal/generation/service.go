// Package generation implements the content generation service: a typed
// request (schema name plus context text) in, a schema-conforming value out.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-synth/internal/llm"
	"github.com/jonathan/resume-synth/internal/prompts"
	"github.com/jonathan/resume-synth/internal/schemas"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 90 * time.Second

// Request names the output schema and carries the conditioning context.
type Request struct {
	Schema  string
	Context string
	Tier    llm.ModelTier
}

// Generator produces a value for req and decodes it into out.
type Generator interface {
	Generate(ctx context.Context, req Request, out any) error
}

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// Service is the LLM-backed Generator.
type Service struct {
	client  llm.Client
	timeout time.Duration
}

// NewService creates a Service. A zero timeout uses DefaultTimeout.
func NewService(client llm.Client, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{client: client, timeout: timeout}
}

// Generate builds the prompt for req.Schema, calls the model under a per-call
// timeout, validates the JSON against the schema, and decodes it into out.
func (s *Service) Generate(ctx context.Context, req Request, out any) error {
	schemaSrc, err := schemas.Source(req.Schema)
	if err != nil {
		return err
	}
	prompt, err := prompts.Render(prompts.GenerationFile, req.Schema, map[string]string{
		"Schema":  schemaSrc,
		"Context": req.Context,
	})
	if err != nil {
		return fmt.Errorf("failed to build prompt: %w", err)
	}

	tier := req.Tier
	if tier == "" {
		tier = llm.TierStandard
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.GenerateJSON(callCtx, prompt, tier)
	if err != nil {
		return &ServiceError{
			Schema:  req.Schema,
			Timeout: errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded),
			Cause:   err,
		}
	}

	return Decode(req.Schema, llm.CleanJSONBlock(raw), out)
}

// Decode validates text against the named schema, decodes it into out, and
// runs struct validation. Every conformance failure is a *SchemaViolationError.
func Decode(schema, text string, out any) error {
	if err := schemas.Validate(schema, text); err != nil {
		return &SchemaViolationError{Schema: schema, Message: "output does not match schema", Cause: err}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	if err := dec.Decode(out); err != nil {
		return &SchemaViolationError{Schema: schema, Message: "failed to decode output", Cause: err}
	}

	if err := validate.Struct(out); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("cannot validate %T: %w", out, err)
		}
		return &SchemaViolationError{Schema: schema, Message: "output failed validation", Cause: err}
	}
	return nil
}
