// Package types provides type definitions for structured data used throughout the resume-synth system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// JobRequirements is the structured distillation of a job posting used to
// condition every generation stage.
type JobRequirements struct {
	CompanyName        string `json:"company_name"`
	JobTitle           string `json:"job_title"`
	JobDescription     string `json:"job_description"`
	Location           string `json:"location,omitempty"`
	ApplicationURL     string `json:"application_url,omitempty"`
	SeniorityLevel     string `json:"seniority_level,omitempty"`
	About              string `json:"about,omitempty"`
	RequiredEducation  string `json:"required_education,omitempty"`
	RequiredExperience string `json:"required_experience,omitempty"`
	RequiredSkills     string `json:"required_skills,omitempty"`
}

// RequiredSkillList splits RequiredSkills on commas, semicolons and newlines.
func (r *JobRequirements) RequiredSkillList() []string {
	if r == nil || r.RequiredSkills == "" {
		return nil
	}
	parts := strings.FieldsFunc(r.RequiredSkills, func(c rune) bool {
		return c == ',' || c == ';' || c == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JobAnalysis is the generation output of the job analyzer. Every field is
// best-effort: nil means the generator did not provide it.
type JobAnalysis struct {
	CompanyName        *string `json:"company_name,omitempty"`
	About              *string `json:"about,omitempty"`
	RequiredEducation  *string `json:"required_education,omitempty"`
	RequiredExperience *string `json:"required_experience,omitempty"`
	RequiredSkills     *string `json:"required_skills,omitempty"`
}

// MergeInto copies present fields onto r and leaves absent ones untouched.
// CompanyName is only taken when r has none; the posting's own value wins.
func (a *JobAnalysis) MergeInto(r *JobRequirements) {
	if a == nil || r == nil {
		return
	}
	if r.CompanyName == "" {
		keepIfAbsent(&r.CompanyName, a.CompanyName)
	}
	keepIfAbsent(&r.About, a.About)
	keepIfAbsent(&r.RequiredEducation, a.RequiredEducation)
	keepIfAbsent(&r.RequiredExperience, a.RequiredExperience)
	keepIfAbsent(&r.RequiredSkills, a.RequiredSkills)
}

func keepIfAbsent(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}
