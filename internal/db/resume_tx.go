package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ResumeTx is the write surface used while persisting one resume. Every
// method is an insert returning the new row id so children can reference
// their parent.
type ResumeTx interface {
	CreateResume(ctx context.Context, input *ResumeCreateInput) (int64, error)
	AddPersonalInfo(ctx context.Context, resumeID int64, input *PersonalInfoInput) (int64, error)
	AddContactDetail(ctx context.Context, resumeID int64, input *ContactDetailInput) (int64, error)
	AddSummary(ctx context.Context, resumeID int64, content string) (int64, error)
	AddSkillCategory(ctx context.Context, resumeID int64, name string, displayOrder int) (int64, error)
	AddSkill(ctx context.Context, resumeID, categoryID int64, input *SkillInput) (int64, error)
	AddExperience(ctx context.Context, resumeID int64, input *ExperienceInput) (int64, error)
	AddAccomplishment(ctx context.Context, resumeID, experienceID int64, description string, displayOrder int) (int64, error)
	AddEducation(ctx context.Context, resumeID int64, input *EducationInput) (int64, error)
	AddProject(ctx context.Context, resumeID int64, input *ProjectInput) (int64, error)
}

type resumeTx struct {
	q querier
}

// CreateResume inserts the resume shell. It serializes on the job id with a
// transaction-scoped advisory lock, then inserts with ON CONFLICT DO NOTHING.
// If a resume for the job already exists it returns *ResumeExistsError.
func (t *resumeTx) CreateResume(ctx context.Context, input *ResumeCreateInput) (int64, error) {
	if _, err := t.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, input.JobID); err != nil {
		return 0, fmt.Errorf("failed to lock job id: %w", err)
	}

	var id int64
	err := t.q.QueryRow(ctx,
		`INSERT INTO resumes (job_id, job_requirements_id, name, description)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id) DO NOTHING
		 RETURNING id`,
		input.JobID, input.JobRequirementsID, input.Name, nullIfEmpty(input.Description),
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("failed to create resume: %w", err)
	}

	if err := t.q.QueryRow(ctx,
		`SELECT id FROM resumes WHERE job_id = $1`, input.JobID,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read existing resume: %w", err)
	}
	return 0, &ResumeExistsError{JobID: input.JobID, ResumeID: id}
}

// AddPersonalInfo inserts the resume's personal info
func (t *resumeTx) AddPersonalInfo(ctx context.Context, resumeID int64, input *PersonalInfoInput) (int64, error) {
	return t.insertReturningID(ctx, "personal info",
		`INSERT INTO personal_info (resume_id, name, headline, contact_info)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		resumeID, input.Name, nullIfEmpty(input.Headline), nullIfEmpty(input.ContactInfo))
}

// AddContactDetail inserts one contact entry
func (t *resumeTx) AddContactDetail(ctx context.Context, resumeID int64, input *ContactDetailInput) (int64, error) {
	return t.insertReturningID(ctx, "contact detail",
		`INSERT INTO contact_details (resume_id, label, icon, value, display_order)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		resumeID, input.Label, input.Icon, input.Value, input.DisplayOrder)
}

// AddSummary inserts the summary text
func (t *resumeTx) AddSummary(ctx context.Context, resumeID int64, content string) (int64, error) {
	return t.insertReturningID(ctx, "summary",
		`INSERT INTO summaries (resume_id, content) VALUES ($1, $2) RETURNING id`,
		resumeID, content)
}

// AddSkillCategory inserts a category and returns its id for child skills
func (t *resumeTx) AddSkillCategory(ctx context.Context, resumeID int64, name string, displayOrder int) (int64, error) {
	return t.insertReturningID(ctx, "skill category",
		`INSERT INTO skill_categories (resume_id, name, display_order)
		 VALUES ($1, $2, $3) RETURNING id`,
		resumeID, name, displayOrder)
}

// AddSkill inserts a skill under a category
func (t *resumeTx) AddSkill(ctx context.Context, resumeID, categoryID int64, input *SkillInput) (int64, error) {
	return t.insertReturningID(ctx, "skill",
		`INSERT INTO skills (resume_id, category_id, name, proficiency, display_order)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		resumeID, categoryID, input.Name, input.Proficiency, input.DisplayOrder)
}

// AddExperience inserts a position and returns its id for accomplishments
func (t *resumeTx) AddExperience(ctx context.Context, resumeID int64, input *ExperienceInput) (int64, error) {
	return t.insertReturningID(ctx, "experience",
		`INSERT INTO experiences (resume_id, job_title, company, location, date_range, display_order)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		resumeID, input.JobTitle, input.Company, nullIfEmpty(input.Location),
		nullIfEmpty(input.DateRange), input.DisplayOrder)
}

// AddAccomplishment inserts one bullet under an experience
func (t *resumeTx) AddAccomplishment(ctx context.Context, resumeID, experienceID int64, description string, displayOrder int) (int64, error) {
	return t.insertReturningID(ctx, "job accomplishment",
		`INSERT INTO job_accomplishments (resume_id, experience_id, description, display_order)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		resumeID, experienceID, description, displayOrder)
}

// AddEducation inserts one credential
func (t *resumeTx) AddEducation(ctx context.Context, resumeID int64, input *EducationInput) (int64, error) {
	return t.insertReturningID(ctx, "education",
		`INSERT INTO educations (resume_id, degree, institution, location, date_range, description, display_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		resumeID, input.Degree, input.Institution, nullIfEmpty(input.Location),
		nullIfEmpty(input.DateRange), nullIfEmpty(input.Description), input.DisplayOrder)
}

// AddProject inserts one project
func (t *resumeTx) AddProject(ctx context.Context, resumeID int64, input *ProjectInput) (int64, error) {
	return t.insertReturningID(ctx, "project",
		`INSERT INTO projects (resume_id, title, technologies, link, description, display_order)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		resumeID, input.Title, nullIfEmpty(input.Technologies), nullIfEmpty(input.Link),
		nullIfEmpty(input.Description), input.DisplayOrder)
}

func (t *resumeTx) insertReturningID(ctx context.Context, entity, sql string, args ...any) (int64, error) {
	var id int64
	if err := t.q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", entity, err)
	}
	return id, nil
}
