package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/parsing"
	"github.com/jonathan/resume-synth/internal/pipeline"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "job_id", Message: "required"}
	assert.Equal(t, "validation error: job_id - required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"parsing validation", &parsing.ValidationError{Field: "background", Message: "empty"}, http.StatusBadRequest},
		{"unknown entity", &db.UnknownEntityError{Entity: "widgets"}, http.StatusBadRequest},
		{"not found", &pipeline.NotFoundError{Entity: "job", ID: "x"}, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", &pipeline.NotFoundError{Entity: "job", ID: "x"}), http.StatusNotFound},
		{"schema violation", &generation.SchemaViolationError{Schema: "summary", Message: "bad"}, http.StatusBadGateway},
		{"grounding", &parsing.GroundingError{}, http.StatusBadGateway},
		{"service", &generation.ServiceError{Schema: "summary", Cause: errors.New("503")}, http.StatusServiceUnavailable},
		{"service timeout", &generation.ServiceError{Schema: "summary", Timeout: true, Cause: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"storage", &pipeline.StorageError{Op: "persist resume", Cause: errors.New("conn reset")}, http.StatusInternalServerError},
		{"canceled", fmt.Errorf("generate: %w", context.Canceled), statusClientClosedRequest},
		{"exists", &db.ResumeExistsError{JobID: "j", ResumeID: 1}, http.StatusConflict},
		{"partial from schema", &pipeline.PartialResumeError{ResumeID: 4, Section: "experience",
			Cause: &generation.SchemaViolationError{Schema: "experience", Message: "bad"}}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestNewErrorBody(t *testing.T) {
	partial := &pipeline.PartialResumeError{ResumeID: 9, Section: "projects", Cause: &generation.ServiceError{Schema: "projects", Cause: errors.New("down")}}
	body := newErrorBody(partial)
	assert.Equal(t, int64(9), body.ResumeID)
	assert.Equal(t, string(pipeline.KindTransient), body.Kind)

	grounding := &parsing.GroundingError{Violations: []parsing.GroundingViolation{{Field: "work_history.company", Value: "Globex"}}}
	body = newErrorBody(grounding)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "Globex", body.Details[0].Value)
}

func TestValidationError_FieldErrors(t *testing.T) {
	type req struct {
		JobID string `validate:"required"`
		Count int    `validate:"gte=0"`
	}
	err := validationError(validator.New().Struct(req{Count: -1}))

	var v *ErrValidation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "JobID,Count", v.Field)
	assert.Contains(t, v.Message, "JobID failed required")
	assert.Contains(t, v.Message, "Count failed gte")
}
