package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-synth/internal/types"
)

// -----------------------------------------------------------------------------
// Job Requirements Methods
// -----------------------------------------------------------------------------

const jobRequirementsColumns = `id, job_id, company_name, job_title, job_description,
		        COALESCE(location, ''), COALESCE(application_url, ''), COALESCE(seniority_level, ''),
		        COALESCE(about, ''), COALESCE(required_education, ''),
		        COALESCE(required_experience, ''), COALESCE(required_skills, ''),
		        is_visible, created_at, updated_at`

func scanJobRequirements(row pgx.Row) (*JobRequirements, error) {
	var r JobRequirements
	err := row.Scan(&r.ID, &r.JobID, &r.CompanyName, &r.JobTitle, &r.JobDescription,
		&r.Location, &r.ApplicationURL, &r.SeniorityLevel, &r.About, &r.RequiredEducation,
		&r.RequiredExperience, &r.RequiredSkills, &r.IsVisible, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateJobRequirements stores an analyzed job. jobID may be empty for postings
// that did not come through ingestion.
func (db *DB) CreateJobRequirements(ctx context.Context, jobID string, req *types.JobRequirements) (*JobRequirements, error) {
	r, err := scanJobRequirements(db.pool.QueryRow(ctx,
		`INSERT INTO job_requirements (job_id, company_name, job_title, job_description, location,
		                               application_url, seniority_level, about, required_education,
		                               required_experience, required_skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+jobRequirementsColumns,
		nullIfEmpty(jobID), req.CompanyName, req.JobTitle, req.JobDescription,
		nullIfEmpty(req.Location), nullIfEmpty(req.ApplicationURL), nullIfEmpty(req.SeniorityLevel),
		nullIfEmpty(req.About), nullIfEmpty(req.RequiredEducation),
		nullIfEmpty(req.RequiredExperience), nullIfEmpty(req.RequiredSkills),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create job requirements: %w", err)
	}
	return r, nil
}

// GetJobRequirements retrieves job requirements by id
func (db *DB) GetJobRequirements(ctx context.Context, id int64) (*JobRequirements, error) {
	r, err := scanJobRequirements(db.pool.QueryRow(ctx,
		`SELECT `+jobRequirementsColumns+` FROM job_requirements WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job requirements: %w", err)
	}
	return r, nil
}

// GetLatestJobRequirements returns the most recent analysis for a job, or nil
func (db *DB) GetLatestJobRequirements(ctx context.Context, jobID string) (*JobRequirements, error) {
	r, err := scanJobRequirements(db.pool.QueryRow(ctx,
		`SELECT `+jobRequirementsColumns+` FROM job_requirements
		 WHERE job_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, jobID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job requirements: %w", err)
	}
	return r, nil
}

// ListJobRequirements returns every analysis, newest first
func (db *DB) ListJobRequirements(ctx context.Context) ([]JobRequirements, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobRequirementsColumns+` FROM job_requirements ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job requirements: %w", err)
	}
	defer rows.Close()

	var out []JobRequirements
	for rows.Next() {
		r, err := scanJobRequirements(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job requirements: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// UpdateJobRequirements backfills the derived fields. Empty values keep the stored value.
func (db *DB) UpdateJobRequirements(ctx context.Context, id int64, req *types.JobRequirements) (*JobRequirements, error) {
	r, err := scanJobRequirements(db.pool.QueryRow(ctx,
		`UPDATE job_requirements SET
		    company_name = COALESCE(NULLIF($2, ''), company_name),
		    about = COALESCE($3, about),
		    required_education = COALESCE($4, required_education),
		    required_experience = COALESCE($5, required_experience),
		    required_skills = COALESCE($6, required_skills),
		    updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+jobRequirementsColumns,
		id, req.CompanyName, nullIfEmpty(req.About), nullIfEmpty(req.RequiredEducation),
		nullIfEmpty(req.RequiredExperience), nullIfEmpty(req.RequiredSkills),
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job requirements: %w", err)
	}
	return r, nil
}

// DeleteJobRequirements removes an analysis. Resumes built from it keep existing.
func (db *DB) DeleteJobRequirements(ctx context.Context, id int64) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_requirements WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job requirements: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
