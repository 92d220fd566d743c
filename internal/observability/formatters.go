// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/pipeline"
	"github.com/jonathan/resume-synth/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items with a "... and N more" tail.
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for _, item := range items[:count] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintRequirements outputs the analyzed requirements of a job.
func (p *Printer) PrintRequirements(reqs *types.JobRequirements) {
	if reqs == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Company:    %s\n", reqs.CompanyName)
	fmt.Fprintf(&sb, "Role:       %s\n", reqs.JobTitle)
	if reqs.SeniorityLevel != "" {
		fmt.Fprintf(&sb, "Seniority:  %s\n", reqs.SeniorityLevel)
	}
	if reqs.RequiredEducation != "" {
		fmt.Fprintf(&sb, "Education:  %s\n", reqs.RequiredEducation)
	}
	if reqs.RequiredExperience != "" {
		fmt.Fprintf(&sb, "Experience: %s\n", reqs.RequiredExperience)
	}
	if skills := reqs.RequiredSkillList(); len(skills) > 0 {
		sb.WriteString("\nRequired Skills:\n")
		writeList(&sb, skills, maxItemsToShow)
	}

	p.printBox("JOB REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBackground outputs a summary of the parsed candidate background.
func (p *Printer) PrintBackground(bg *types.ParsedBackground) {
	if bg == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:     %s\n", bg.PersonalInfo.Name)
	if bg.PersonalInfo.Headline != "" {
		fmt.Fprintf(&sb, "Headline: %s\n", bg.PersonalInfo.Headline)
	}
	fmt.Fprintf(&sb, "Contacts: %d  Positions: %d  Education: %d  Projects: %d\n",
		len(bg.PersonalInfo.Contacts), len(bg.WorkHistory), len(bg.Education), len(bg.Projects))

	if len(bg.WorkHistory) > 0 {
		sb.WriteString("\nWork History:\n")
		positions := make([]string, len(bg.WorkHistory))
		for i, w := range bg.WorkHistory {
			positions[i] = fmt.Sprintf("%s, %s", w.Title, w.Company)
		}
		writeList(&sb, positions, maxItemsToShow)
	}
	if len(bg.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		writeList(&sb, bg.Skills, maxItemsToShow)
	}

	p.printBox("PARSED BACKGROUND", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs a stored resume section by section. Hidden rows are
// marked rather than skipped.
func (p *Printer) PrintResume(r *db.FullResume) {
	if r == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %s%s\n", r.ID, r.Name, hiddenMark(r.IsVisible))
	fmt.Fprintf(&sb, "Job: %s\n", r.JobID)
	if r.PersonalInfo != nil {
		fmt.Fprintf(&sb, "\n%s\n", r.PersonalInfo.Name)
		if r.PersonalInfo.ContactInfo != nil {
			sb.WriteString(*r.PersonalInfo.ContactInfo + "\n")
		}
	}

	if r.Summary != nil {
		fmt.Fprintf(&sb, "\nSUMMARY%s\n%s\n", hiddenMark(r.Summary.IsVisible), r.Summary.Content)
	}

	if len(r.SkillCategories) > 0 {
		sb.WriteString("\nSKILLS\n")
		for _, c := range r.SkillCategories {
			names := make([]string, len(c.Skills))
			for i, s := range c.Skills {
				names[i] = s.Name
			}
			fmt.Fprintf(&sb, "%s%s: %s\n", c.Name, hiddenMark(c.IsVisible), strings.Join(names, ", "))
		}
	}

	if len(r.Experiences) > 0 {
		sb.WriteString("\nEXPERIENCE\n")
		for _, e := range r.Experiences {
			fmt.Fprintf(&sb, "%s, %s%s\n", e.JobTitle, e.Company, hiddenMark(e.IsVisible))
			for _, a := range e.Accomplishments {
				fmt.Fprintf(&sb, "  • %s\n", a.Description)
			}
		}
	}

	if len(r.Educations) > 0 {
		sb.WriteString("\nEDUCATION\n")
		for _, e := range r.Educations {
			fmt.Fprintf(&sb, "%s, %s%s\n", e.Degree, e.Institution, hiddenMark(e.IsVisible))
		}
	}

	if len(r.Projects) > 0 {
		sb.WriteString("\nPROJECTS\n")
		for _, pr := range r.Projects {
			fmt.Fprintf(&sb, "%s%s\n", pr.Title, hiddenMark(pr.IsVisible))
		}
	}

	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

func hiddenMark(visible bool) string {
	if visible {
		return ""
	}
	return " (hidden)"
}

// PrintProgress writes one line per pipeline event.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(ev pipeline.ProgressEvent) {
	line := fmt.Sprintf("[%s] %s", ev.JobID, ev.Step)
	if ev.Message != "" {
		line += ": " + ev.Message
	}
	if ev.ResumeID != 0 {
		line += fmt.Sprintf(" (resume #%d)", ev.ResumeID)
	}
	fmt.Fprintln(p.out, line)
}

// PrintBatchReport outputs the outcome of a batch run.
func (p *Printer) PrintBatchReport(report *pipeline.BatchReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", report.String())
	if len(report.Outcomes) > 0 {
		sb.WriteString("\n")
	}
	for _, o := range report.Outcomes {
		status := fmt.Sprintf("created #%d", o.ResumeID)
		switch {
		case o.Err != nil:
			status = "failed: " + o.Err.Error()
		case o.Existing:
			status = fmt.Sprintf("existing #%d", o.ResumeID)
		}
		fmt.Fprintf(&sb, "%s at %s: %s\n", o.Title, o.Company, status)
	}

	p.printBox("BATCH RUN", strings.TrimSuffix(sb.String(), "\n"))
}
