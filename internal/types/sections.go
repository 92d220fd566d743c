package types

// SummarySection is the generated professional summary.
type SummarySection struct {
	Content string `json:"content" validate:"required"`
}

// SkillsSection is an open set of named, ordered skill categories.
type SkillsSection struct {
	Categories []SkillCategory `json:"categories" validate:"required,min=1,dive"`
}

// SkillCategory groups skills under a free-form name.
type SkillCategory struct {
	Name   string  `json:"name" validate:"required"`
	Skills []Skill `json:"skills" validate:"dive"`
}

// Skill is a named skill with an optional proficiency in [0,100].
type Skill struct {
	Name        string `json:"name" validate:"required"`
	Proficiency *int   `json:"proficiency,omitempty" validate:"omitempty,min=0,max=100"`
}

// ExperienceSection holds one entry per work history item.
type ExperienceSection struct {
	Entries []ExperienceEntry `json:"entries" validate:"dive"`
}

// ExperienceEntry is a tailored position. DisplayOrder 0 is the most recent.
type ExperienceEntry struct {
	JobTitle        string   `json:"job_title" validate:"required"`
	Company         string   `json:"company" validate:"required"`
	Location        string   `json:"location,omitempty"`
	DateRange       string   `json:"date_range,omitempty"`
	Accomplishments []string `json:"accomplishments"`
	DisplayOrder    int      `json:"display_order"`
}

// EducationSection holds one entry per education history item.
type EducationSection struct {
	Entries []EducationEntry `json:"entries" validate:"dive"`
}

// EducationEntry is a credential with a short tailored description.
type EducationEntry struct {
	Degree       string `json:"degree" validate:"required"`
	Institution  string `json:"institution" validate:"required"`
	Location     string `json:"location,omitempty"`
	DateRange    string `json:"date_range,omitempty"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// ProjectsSection holds the selected projects in relevance order.
type ProjectsSection struct {
	Entries []ProjectEntry `json:"entries" validate:"dive"`
}

// ProjectEntry carries a technical point and an impact point.
type ProjectEntry struct {
	Title          string   `json:"title" validate:"required"`
	Technologies   []string `json:"technologies,omitempty"`
	Link           string   `json:"link,omitempty"`
	TechnicalPoint string   `json:"technical_point" validate:"required"`
	ImpactPoint    string   `json:"impact_point" validate:"required"`
	DisplayOrder   int      `json:"display_order"`
}

// Sections bundles the five generated sections of one resume.
type Sections struct {
	Summary    *SummarySection    `json:"summary"`
	Skills     *SkillsSection     `json:"skills"`
	Experience *ExperienceSection `json:"experience"`
	Education  *EducationSection  `json:"education"`
	Projects   *ProjectsSection   `json:"projects"`
}

// Description is the persisted form of a project: both points joined by a newline.
func (p ProjectEntry) Description() string {
	return p.TechnicalPoint + "\n" + p.ImpactPoint
}
