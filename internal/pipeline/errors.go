package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/parsing"
)

// NotFoundError is returned when a referenced job or requirements row does not exist
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// StorageError wraps a relational store failure
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// PartialResumeError is returned in incremental mode when a section fails
// after the resume shell was committed. The partial resume stays visible and
// a retry for the same job returns it.
type PartialResumeError struct {
	ResumeID int64
	Section  string
	Cause    error
}

func (e *PartialResumeError) Error() string {
	return fmt.Sprintf("resume %d left partial at section %s: %v", e.ResumeID, e.Section, e.Cause)
}

func (e *PartialResumeError) Unwrap() error {
	return e.Cause
}

// ErrorKind is the failure class of a pipeline error
type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindSchemaViolation ErrorKind = "schema_violation"
	KindTransient       ErrorKind = "transient"
	KindStorage         ErrorKind = "storage"
	KindCanceled        ErrorKind = "canceled"
	KindUnknown         ErrorKind = "unknown"
)

// Classify maps err onto the pipeline error taxonomy.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var (
		notFound  *NotFoundError
		schemaErr *generation.SchemaViolationError
		grounding *parsing.GroundingError
		service   *generation.ServiceError
		storage   *StorageError
		invalid   *parsing.ValidationError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &invalid):
		return KindValidation
	case errors.As(err, &schemaErr), errors.As(err, &grounding):
		return KindSchemaViolation
	case errors.As(err, &service):
		return KindTransient
	case errors.As(err, &storage):
		return KindStorage
	default:
		return KindUnknown
	}
}
