package db

import "time"

// SeniorityMidSenior is the seniority label the batch runner targets by default.
const SeniorityMidSenior = "Mid-Senior level"

// Job represents a job posting supplied by ingestion
type Job struct {
	ID             int64     `json:"id"`
	ExternalID     string    `json:"external_id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       *string   `json:"location,omitempty"`
	Description    string    `json:"description"`
	SeniorityLevel *string   `json:"seniority_level,omitempty"`
	ApplicationURL *string   `json:"application_url,omitempty"`
	Applied        bool      `json:"applied"`
	ScrapedAt      time.Time `json:"scraped_at"`
	IsVisible      bool      `json:"is_visible"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// JobCreateInput contains fields for ingesting a job posting
type JobCreateInput struct {
	ExternalID     string     `json:"external_id" validate:"required"`
	Title          string     `json:"title" validate:"required"`
	Company        string     `json:"company" validate:"required"`
	Location       string     `json:"location,omitempty"`
	Description    string     `json:"description"`
	SeniorityLevel string     `json:"seniority_level,omitempty"`
	ApplicationURL string     `json:"application_url,omitempty" validate:"omitempty,url"`
	ScrapedAt      *time.Time `json:"scraped_date,omitempty"`
}

// JobUpdateInput contains optional fields for updating a job. Nil fields are left unchanged.
type JobUpdateInput struct {
	Title          *string `json:"title,omitempty"`
	Company        *string `json:"company,omitempty"`
	Location       *string `json:"location,omitempty"`
	Description    *string `json:"description,omitempty"`
	SeniorityLevel *string `json:"seniority_level,omitempty"`
	ApplicationURL *string `json:"application_url,omitempty"`
	Applied        *bool   `json:"applied,omitempty"`
}

// JobFilter narrows ListJobs
type JobFilter struct {
	SeniorityLevel string
	OnlyUnapplied  bool
	Limit          int
	Offset         int
}
