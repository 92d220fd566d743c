package db

import (
	"time"

	"github.com/jonathan/resume-synth/internal/types"
)

// JobRequirements is one persisted job-analysis run
type JobRequirements struct {
	ID    int64   `json:"id"`
	JobID *string `json:"job_id,omitempty"`
	types.JobRequirements
	IsVisible bool      `json:"is_visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
