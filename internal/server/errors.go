package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/parsing"
	"github.com/jonathan/resume-synth/internal/pipeline"
)

// statusClientClosedRequest is reported when the caller went away mid-request.
const statusClientClosedRequest = 499

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationError flattens validator field errors into one ErrValidation.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	fields := make([]string, len(fieldErrs))
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = fe.Field()
		msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return &ErrValidation{Field: strings.Join(fields, ","), Message: strings.Join(msgs, "; ")}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalid *ErrValidation
		unknown *db.UnknownEntityError
		service *generation.ServiceError
		exists  *db.ResumeExistsError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &invalid), errors.As(err, &unknown):
		return http.StatusBadRequest
	case errors.As(err, &exists):
		return http.StatusConflict
	case errors.As(err, &service) && service.Timeout, errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch pipeline.Classify(err) {
	case pipeline.KindValidation:
		return http.StatusBadRequest
	case pipeline.KindNotFound:
		return http.StatusNotFound
	case pipeline.KindSchemaViolation:
		return http.StatusBadGateway
	case pipeline.KindTransient:
		return http.StatusServiceUnavailable
	case pipeline.KindCanceled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of a failed request
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	// ResumeID is set when a partial resume was left behind
	ResumeID int64                        `json:"resume_id,omitempty"`
	Details  []parsing.GroundingViolation `json:"details,omitempty"`
}

func newErrorBody(err error) errorBody {
	body := errorBody{Error: err.Error(), Kind: string(pipeline.Classify(err))}
	var partial *pipeline.PartialResumeError
	if errors.As(err, &partial) {
		body.ResumeID = partial.ResumeID
	}
	var grounding *parsing.GroundingError
	if errors.As(err, &grounding) {
		body.Details = grounding.Violations
	}
	return body
}

// failResponse writes err with the status HTTPStatus assigns to it.
func (s *Server) failResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), newErrorBody(err))
}
