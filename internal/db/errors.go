package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// ResumeExistsError is returned by CreateResume when a resume for the job id
// was committed by another caller.
type ResumeExistsError struct {
	JobID    string
	ResumeID int64
}

func (e *ResumeExistsError) Error() string {
	return fmt.Sprintf("resume for job %q already exists (id %d)", e.JobID, e.ResumeID)
}

// UnknownEntityError is returned for an entity name outside the resume schema
type UnknownEntityError struct {
	Entity string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity: %s", e.Entity)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint failure
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
