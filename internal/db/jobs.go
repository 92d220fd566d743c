package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

const jobColumns = `id, external_id, title, company, location, description, seniority_level,
		        application_url, applied, scraped_at, is_visible, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.ExternalID, &j.Title, &j.Company, &j.Location, &j.Description,
		&j.SeniorityLevel, &j.ApplicationURL, &j.Applied, &j.ScrapedAt, &j.IsVisible,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts a job if its external id is new and returns the stored row.
// The returned bool is true when a new row was created.
func (db *DB) CreateJob(ctx context.Context, input *JobCreateInput) (*Job, bool, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (external_id, title, company, location, description,
		                   seniority_level, application_url, scraped_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		 ON CONFLICT (external_id) DO NOTHING
		 RETURNING id`,
		input.ExternalID, input.Title, input.Company, nullIfEmpty(input.Location),
		input.Description, nullIfEmpty(input.SeniorityLevel), nullIfEmpty(input.ApplicationURL),
		input.ScrapedAt,
	).Scan(&id)
	created := true
	if err == pgx.ErrNoRows {
		created = false
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to create job: %w", err)
	}

	job, err := db.GetJob(ctx, input.ExternalID)
	if err != nil {
		return nil, false, err
	}
	return job, created, nil
}

// GetJob retrieves a job by its external id
func (db *DB) GetJob(ctx context.Context, externalID string) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE external_id = $1`, externalID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// GetJobByID retrieves a job by its surrogate id
func (db *DB) GetJobByID(ctx context.Context, id int64) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs returns jobs ordered by most recently scraped first
func (db *DB) ListJobs(ctx context.Context, filter JobFilter) ([]Job, error) {
	var conds []string
	var args []any
	if filter.SeniorityLevel != "" {
		args = append(args, filter.SeniorityLevel)
		conds = append(conds, fmt.Sprintf("seniority_level = $%d", len(args)))
	}
	if filter.OnlyUnapplied {
		conds = append(conds, "applied = FALSE")
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY scraped_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// UpdateJob applies the non-nil fields of input. Returns nil, nil if the job does not exist.
func (db *DB) UpdateJob(ctx context.Context, externalID string, input *JobUpdateInput) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`UPDATE jobs SET
		    title = COALESCE($2, title),
		    company = COALESCE($3, company),
		    location = COALESCE($4, location),
		    description = COALESCE($5, description),
		    seniority_level = COALESCE($6, seniority_level),
		    application_url = COALESCE($7, application_url),
		    applied = COALESCE($8, applied),
		    updated_at = NOW()
		 WHERE external_id = $1
		 RETURNING `+jobColumns,
		externalID, input.Title, input.Company, input.Location, input.Description,
		input.SeniorityLevel, input.ApplicationURL, input.Applied,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// MarkJobApplied sets the applied flag. Returns false if the job does not exist.
func (db *DB) MarkJobApplied(ctx context.Context, externalID string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET applied = TRUE, updated_at = NOW() WHERE external_id = $1`,
		externalID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark job applied: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetApplicationURL returns the job's application URL, or "" when unknown
func (db *DB) GetApplicationURL(ctx context.Context, externalID string) (string, error) {
	var url *string
	err := db.pool.QueryRow(ctx,
		`SELECT application_url FROM jobs WHERE external_id = $1`, externalID,
	).Scan(&url)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get application url: %w", err)
	}
	if url == nil {
		return "", nil
	}
	return *url, nil
}

// DeleteJob removes a job. Resumes keyed by its external id are not touched.
func (db *DB) DeleteJob(ctx context.Context, externalID string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE external_id = $1`, externalID)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
