package db

import "time"

// Resume is the root row of a generated resume. JobID is the idempotency key.
type Resume struct {
	ID                int64     `json:"id"`
	JobID             string    `json:"job_id"`
	JobRequirementsID *int64    `json:"job_requirements_id,omitempty"`
	Name              string    `json:"name"`
	Description       *string   `json:"description,omitempty"`
	IsVisible         bool      `json:"is_visible"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PersonalInfo is 1:1 with a resume
type PersonalInfo struct {
	ID          int64   `json:"id"`
	ResumeID    int64   `json:"resume_id"`
	Name        string  `json:"name"`
	Headline    *string `json:"headline,omitempty"`
	ContactInfo *string `json:"contact_info,omitempty"`
	IsVisible   bool    `json:"is_visible"`
}

// ContactDetail is a labeled contact entry with a Font Awesome icon tag
type ContactDetail struct {
	ID           int64  `json:"id"`
	ResumeID     int64  `json:"resume_id"`
	Label        string `json:"label"`
	Icon         string `json:"icon"`
	Value        string `json:"value"`
	DisplayOrder int    `json:"display_order"`
	IsVisible    bool   `json:"is_visible"`
}

// Summary is 1:1 with a resume
type Summary struct {
	ID        int64  `json:"id"`
	ResumeID  int64  `json:"resume_id"`
	Content   string `json:"content"`
	IsVisible bool   `json:"is_visible"`
}

// SkillCategory groups skills. Names form an open set.
type SkillCategory struct {
	ID           int64   `json:"id"`
	ResumeID     int64   `json:"resume_id"`
	Name         string  `json:"name"`
	DisplayOrder int     `json:"display_order"`
	IsVisible    bool    `json:"is_visible"`
	Skills       []Skill `json:"skills,omitempty"`
}

// Skill belongs to a category
type Skill struct {
	ID           int64  `json:"id"`
	ResumeID     int64  `json:"resume_id"`
	CategoryID   int64  `json:"category_id"`
	Name         string `json:"name"`
	Proficiency  *int   `json:"proficiency,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsVisible    bool   `json:"is_visible"`
}

// Experience is one position. DisplayOrder 0 is the most recent.
type Experience struct {
	ID              int64               `json:"id"`
	ResumeID        int64               `json:"resume_id"`
	JobTitle        string              `json:"job_title"`
	Company         string              `json:"company"`
	Location        *string             `json:"location,omitempty"`
	DateRange       *string             `json:"date_range,omitempty"`
	DisplayOrder    int                 `json:"display_order"`
	IsVisible       bool                `json:"is_visible"`
	Accomplishments []JobAccomplishment `json:"accomplishments,omitempty"`
}

// JobAccomplishment is one bullet under an experience
type JobAccomplishment struct {
	ID           int64  `json:"id"`
	ResumeID     int64  `json:"resume_id"`
	ExperienceID int64  `json:"experience_id"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	IsVisible    bool   `json:"is_visible"`
}

// Education is one credential
type Education struct {
	ID           int64   `json:"id"`
	ResumeID     int64   `json:"resume_id"`
	Degree       string  `json:"degree"`
	Institution  string  `json:"institution"`
	Location     *string `json:"location,omitempty"`
	DateRange    *string `json:"date_range,omitempty"`
	Description  *string `json:"description,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsVisible    bool    `json:"is_visible"`
}

// Project is one selected project. DisplayOrder 0 is the most relevant.
type Project struct {
	ID           int64   `json:"id"`
	ResumeID     int64   `json:"resume_id"`
	Title        string  `json:"title"`
	Technologies *string `json:"technologies,omitempty"`
	Link         *string `json:"link,omitempty"`
	Description  *string `json:"description,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsVisible    bool    `json:"is_visible"`
}

// FullResume is a resume with every child collection loaded in display order
type FullResume struct {
	Resume
	PersonalInfo    *PersonalInfo   `json:"personal_info,omitempty"`
	ContactDetails  []ContactDetail `json:"contact_details"`
	Summary         *Summary        `json:"summary,omitempty"`
	SkillCategories []SkillCategory `json:"skill_categories"`
	Experiences     []Experience    `json:"experiences"`
	Educations      []Education     `json:"educations"`
	Projects        []Project       `json:"projects"`
}

// -----------------------------------------------------------------------------
// Write inputs
// -----------------------------------------------------------------------------

// ResumeCreateInput contains fields for creating a resume shell
type ResumeCreateInput struct {
	JobID             string
	JobRequirementsID *int64
	Name              string
	Description       string
}

// PersonalInfoInput contains fields for a resume's personal info
type PersonalInfoInput struct {
	Name        string
	Headline    string
	ContactInfo string
}

// ContactDetailInput contains fields for one contact entry
type ContactDetailInput struct {
	Label        string
	Icon         string
	Value        string
	DisplayOrder int
}

// SkillInput contains fields for one skill
type SkillInput struct {
	Name         string
	Proficiency  *int
	DisplayOrder int
}

// ExperienceInput contains fields for one position
type ExperienceInput struct {
	JobTitle     string
	Company      string
	Location     string
	DateRange    string
	DisplayOrder int
}

// EducationInput contains fields for one credential
type EducationInput struct {
	Degree       string
	Institution  string
	Location     string
	DateRange    string
	Description  string
	DisplayOrder int
}

// ProjectInput contains fields for one project
type ProjectInput struct {
	Title        string
	Technologies string
	Link         string
	Description  string
	DisplayOrder int
}
