package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Resume Methods
// -----------------------------------------------------------------------------

const resumeColumns = `id, job_id, job_requirements_id, name, description, is_visible, created_at, updated_at`

// resumeEntityTables maps entity names accepted by SetVisibility and DeleteEntity
// to their tables.
var resumeEntityTables = map[string]string{
	"resume":             "resumes",
	"personal_info":      "personal_info",
	"contact_detail":     "contact_details",
	"summary":            "summaries",
	"skill_category":     "skill_categories",
	"skill":              "skills",
	"experience":         "experiences",
	"job_accomplishment": "job_accomplishments",
	"education":          "educations",
	"project":            "projects",
}

// EntityTable returns the table backing a resume entity name
func EntityTable(entity string) (string, error) {
	table, ok := resumeEntityTables[entity]
	if !ok {
		return "", &UnknownEntityError{Entity: entity}
	}
	return table, nil
}

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	if err := row.Scan(&r.ID, &r.JobID, &r.JobRequirementsID, &r.Name, &r.Description,
		&r.IsVisible, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// FindResumeByJobID returns the resume for a job id, or nil if none exists
func (db *DB) FindResumeByJobID(ctx context.Context, jobID string) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE job_id = $1`, jobID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return r, nil
}

// GetResume retrieves a resume row by id
func (db *DB) GetResume(ctx context.Context, id int64) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumes returns all resumes, newest first
func (db *DB) ListResumes(ctx context.Context) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// UpdateResume sets the name and description. Nil fields are left unchanged.
func (db *DB) UpdateResume(ctx context.Context, id int64, name, description *string) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`UPDATE resumes SET name = COALESCE($2, name), description = COALESCE($3, description),
		        updated_at = NOW()
		 WHERE id = $1 RETURNING `+resumeColumns,
		id, name, description))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return r, nil
}

// UpdateSummary replaces the summary content of a resume
func (db *DB) UpdateSummary(ctx context.Context, resumeID int64, content string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE summaries SET content = $2, updated_at = NOW() WHERE resume_id = $1`,
		resumeID, content)
	if err != nil {
		return false, fmt.Errorf("failed to update summary: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteResume removes a resume. Every child row is removed by ON DELETE CASCADE.
func (db *DB) DeleteResume(ctx context.Context, id int64) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// resumeColumn is the column tying a table's rows to their resume
func resumeColumn(table string) string {
	if table == "resumes" {
		return "id"
	}
	return "resume_id"
}

// SetVisibility toggles is_visible on one row of a resume entity. Rows of
// other resumes are left alone and report false.
func (db *DB) SetVisibility(ctx context.Context, resumeID int64, entity string, id int64, visible bool) (bool, error) {
	table, err := EntityTable(entity)
	if err != nil {
		return false, err
	}
	tag, err := db.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET is_visible = $3, updated_at = NOW() WHERE id = $1 AND %s = $2`,
			table, resumeColumn(table)),
		id, resumeID, visible)
	if err != nil {
		return false, fmt.Errorf("failed to set visibility on %s: %w", entity, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteEntity removes one row of a resume entity and its own children.
// Rows of other resumes are left alone and report false.
func (db *DB) DeleteEntity(ctx context.Context, resumeID int64, entity string, id int64) (bool, error) {
	table, err := EntityTable(entity)
	if err != nil {
		return false, err
	}
	tag, err := db.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND %s = $2`, table, resumeColumn(table)),
		id, resumeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", entity, err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountResumeRows returns the number of rows per child table for a resume
func (db *DB) CountResumeRows(ctx context.Context, resumeID int64) (map[string]int, error) {
	counts := make(map[string]int, len(resumeEntityTables))
	for entity, table := range resumeEntityTables {
		var n int
		if err := db.pool.QueryRow(ctx,
			fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, table, resumeColumn(table)), resumeID,
		).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", entity, err)
		}
		counts[entity] = n
	}
	return counts, nil
}

// -----------------------------------------------------------------------------
// Full Resume Loading
// -----------------------------------------------------------------------------

// GetFullResume loads a resume with every child collection in display order.
// Returns nil, nil if the resume does not exist.
func (db *DB) GetFullResume(ctx context.Context, id int64) (*FullResume, error) {
	resume, err := db.GetResume(ctx, id)
	if err != nil || resume == nil {
		return nil, err
	}

	full := &FullResume{Resume: *resume}
	loaders := []func(context.Context, *FullResume) error{
		db.loadPersonalInfo,
		db.loadContactDetails,
		db.loadSummary,
		db.loadSkills,
		db.loadExperiences,
		db.loadEducations,
		db.loadProjects,
	}
	for _, load := range loaders {
		if err := load(ctx, full); err != nil {
			return nil, err
		}
	}
	return full, nil
}

func (db *DB) loadPersonalInfo(ctx context.Context, full *FullResume) error {
	var p PersonalInfo
	err := db.pool.QueryRow(ctx,
		`SELECT id, resume_id, name, headline, contact_info, is_visible
		 FROM personal_info WHERE resume_id = $1`, full.ID,
	).Scan(&p.ID, &p.ResumeID, &p.Name, &p.Headline, &p.ContactInfo, &p.IsVisible)
	if err == pgx.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load personal info: %w", err)
	}
	full.PersonalInfo = &p
	return nil
}

func (db *DB) loadContactDetails(ctx context.Context, full *FullResume) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, label, icon, value, display_order, is_visible
		 FROM contact_details WHERE resume_id = $1 ORDER BY display_order, id`, full.ID)
	if err != nil {
		return fmt.Errorf("failed to load contact details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c ContactDetail
		if err := rows.Scan(&c.ID, &c.ResumeID, &c.Label, &c.Icon, &c.Value,
			&c.DisplayOrder, &c.IsVisible); err != nil {
			return fmt.Errorf("failed to scan contact detail: %w", err)
		}
		full.ContactDetails = append(full.ContactDetails, c)
	}
	return rows.Err()
}

func (db *DB) loadSummary(ctx context.Context, full *FullResume) error {
	var s Summary
	err := db.pool.QueryRow(ctx,
		`SELECT id, resume_id, content, is_visible FROM summaries WHERE resume_id = $1`, full.ID,
	).Scan(&s.ID, &s.ResumeID, &s.Content, &s.IsVisible)
	if err == pgx.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load summary: %w", err)
	}
	full.Summary = &s
	return nil
}

func (db *DB) loadSkills(ctx context.Context, full *FullResume) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, name, display_order, is_visible
		 FROM skill_categories WHERE resume_id = $1 ORDER BY display_order, id`, full.ID)
	if err != nil {
		return fmt.Errorf("failed to load skill categories: %w", err)
	}
	index := make(map[int64]int)
	for rows.Next() {
		var c SkillCategory
		if err := rows.Scan(&c.ID, &c.ResumeID, &c.Name, &c.DisplayOrder, &c.IsVisible); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan skill category: %w", err)
		}
		index[c.ID] = len(full.SkillCategories)
		full.SkillCategories = append(full.SkillCategories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	skillRows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, category_id, name, proficiency, display_order, is_visible
		 FROM skills WHERE resume_id = $1 ORDER BY category_id, display_order, id`, full.ID)
	if err != nil {
		return fmt.Errorf("failed to load skills: %w", err)
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var s Skill
		if err := skillRows.Scan(&s.ID, &s.ResumeID, &s.CategoryID, &s.Name, &s.Proficiency,
			&s.DisplayOrder, &s.IsVisible); err != nil {
			return fmt.Errorf("failed to scan skill: %w", err)
		}
		if i, ok := index[s.CategoryID]; ok {
			full.SkillCategories[i].Skills = append(full.SkillCategories[i].Skills, s)
		}
	}
	return skillRows.Err()
}

func (db *DB) loadExperiences(ctx context.Context, full *FullResume) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, job_title, company, location, date_range, display_order, is_visible
		 FROM experiences WHERE resume_id = $1 ORDER BY display_order, id`, full.ID)
	if err != nil {
		return fmt.Errorf("failed to load experiences: %w", err)
	}
	index := make(map[int64]int)
	for rows.Next() {
		var e Experience
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.JobTitle, &e.Company, &e.Location,
			&e.DateRange, &e.DisplayOrder, &e.IsVisible); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan experience: %w", err)
		}
		index[e.ID] = len(full.Experiences)
		full.Experiences = append(full.Experiences, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	accRows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, experience_id, description, display_order, is_visible
		 FROM job_accomplishments WHERE resume_id = $1
		 ORDER BY experience_id, display_order, id`, full.ID)
	if err != nil {
		return fmt.Errorf("failed to load accomplishments: %w", err)
	}
	defer accRows.Close()

	for accRows.Next() {
		var a JobAccomplishment
		if err := accRows.Scan(&a.ID, &a.ResumeID, &a.ExperienceID, &a.Description,
			&a.DisplayOrder, &a.IsVisible); err != nil {
			return fmt.Errorf("failed to scan accomplishment: %w", err)
		}
		if i, ok := index[a.ExperienceID]; ok {
			full.Experiences[i].Accomplishments = append(full.Experiences[i].Accomplishments, a)
		}
	}
	return accRows.Err()
}

func (db *DB) loadEducations(ctx context.Context, full *FullResume) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, degree, institution, location, date_range, description,
		        display_order, is_visible
		 FROM educations WHERE resume_id = $1 ORDER BY display_order, id`, full.ID)
	if err != nil {
		return fmt.Errorf("failed to load educations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e Education
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.Degree, &e.Institution, &e.Location,
			&e.DateRange, &e.Description, &e.DisplayOrder, &e.IsVisible); err != nil {
			return fmt.Errorf("failed to scan education: %w", err)
		}
		full.Educations = append(full.Educations, e)
	}
	return rows.Err()
}

func (db *DB) loadProjects(ctx context.Context, full *FullResume) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, title, technologies, link, description, display_order, is_visible
		 FROM projects WHERE resume_id = $1 ORDER BY display_order, id`, full.ID)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.ResumeID, &p.Title, &p.Technologies, &p.Link,
			&p.Description, &p.DisplayOrder, &p.IsVisible); err != nil {
			return fmt.Errorf("failed to scan project: %w", err)
		}
		full.Projects = append(full.Projects, p)
	}
	return rows.Err()
}
