// Package sections generates the five tailored resume sections from a parsed
// background and the target job requirements.
package sections

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/types"
)

// Input is the shared input of every section generator. Background and
// Requirements are read-only.
type Input struct {
	Background   *types.ParsedBackground
	Requirements *types.JobRequirements
	// Extra is free-form guidance appended to every prompt
	Extra string
}

func (in Input) validate(section string) error {
	if in.Background == nil {
		return fmt.Errorf("%s: background is required", section)
	}
	if in.Requirements == nil {
		return fmt.Errorf("%s: job requirements are required", section)
	}
	return nil
}

// promptContext assembles the conditioning text for one generator
type promptContext struct {
	sb strings.Builder
}

func (p *promptContext) heading(title string) {
	if p.sb.Len() > 0 {
		p.sb.WriteString("\n")
	}
	fmt.Fprintf(&p.sb, "## %s\n", title)
}

func (p *promptContext) field(name, value string) {
	if value = strings.TrimSpace(value); value != "" {
		fmt.Fprintf(&p.sb, "%s: %s\n", name, value)
	}
}

func (p *promptContext) bullets(items []string) {
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			fmt.Fprintf(&p.sb, "- %s\n", item)
		}
	}
}

func (p *promptContext) requirements(r *types.JobRequirements) {
	p.heading("Job Requirements")
	p.field("Company", r.CompanyName)
	p.field("Job Title", r.JobTitle)
	p.field("Seniority Level", r.SeniorityLevel)
	p.field("About the Company", r.About)
	p.field("Required Skills", r.RequiredSkills)
	p.field("Required Experience", r.RequiredExperience)
	p.field("Required Education", r.RequiredEducation)
}

func (p *promptContext) workHistory(items []types.WorkHistoryItem) {
	p.heading("Work History (most recent first)")
	for i, w := range items {
		fmt.Fprintf(&p.sb, "\n[%d] %s at %s\n", i, w.Title, w.Company)
		p.field("Location", w.Location)
		p.field("Dates", w.DateRange)
		p.bullets(w.Responsibilities)
	}
}

func (p *promptContext) education(items []types.EducationHistoryItem) {
	p.heading("Education")
	for i, e := range items {
		fmt.Fprintf(&p.sb, "\n[%d] %s, %s\n", i, e.Degree, e.Institution)
		p.field("Location", e.Location)
		p.field("Dates", e.DateRange)
		p.field("Details", e.Details)
	}
}

func (p *promptContext) projects(items []types.ProjectHistoryItem) {
	p.heading("Projects")
	for _, pr := range items {
		fmt.Fprintf(&p.sb, "\n%s\n", pr.Title)
		p.field("Technologies", strings.Join(pr.Technologies, ", "))
		p.field("Link", pr.Link)
		p.field("Description", pr.Description)
	}
}

func (p *promptContext) skills(items []string) {
	p.heading("Candidate Skills")
	p.sb.WriteString(strings.Join(items, ", "))
	p.sb.WriteString("\n")
}

func (p *promptContext) extra(text string) {
	if text = strings.TrimSpace(text); text != "" {
		p.heading("Additional Context")
		p.sb.WriteString(text)
		p.sb.WriteString("\n")
	}
}

func (p *promptContext) String() string {
	return p.sb.String()
}

// countMismatch is the schema violation for a generator that added or dropped
// entries.
func countMismatch(schema string, want, got int) error {
	return &generation.SchemaViolationError{
		Schema:  schema,
		Message: fmt.Sprintf("expected %d entries, got %d", want, got),
	}
}
