package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/pipeline"
	"github.com/jonathan/resume-synth/internal/types"
)

func TestPrintRequirements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRequirements(&types.JobRequirements{
		CompanyName:       "Initrode",
		JobTitle:          "Backend Engineer",
		SeniorityLevel:    "Mid-Senior level",
		RequiredEducation: "BS Computer Science",
		RequiredSkills:    "Go, SQL, Kafka, Docker, Kubernetes, Terraform, gRPC",
	})
	output := buf.String()

	assert.Contains(t, output, "JOB REQUIREMENTS")
	assert.Contains(t, output, "Initrode")
	assert.Contains(t, output, "Backend Engineer")
	assert.Contains(t, output, "• Kafka")
	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "gRPC")
}

func TestPrint_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRequirements(nil)
	p.PrintBackground(nil)
	p.PrintResume(nil)
	p.PrintBatchReport(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBackground(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBackground(&types.ParsedBackground{
		PersonalInfo: types.PersonalInfo{Name: "Jane Doe", Headline: "Engineer"},
		WorkHistory: []types.WorkHistoryItem{
			{Title: "Engineer", Company: "Acme"},
		},
		Skills: []string{"Go"},
	})
	output := buf.String()

	assert.Contains(t, output, "PARSED BACKGROUND")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Positions: 1")
	assert.Contains(t, output, "Engineer, Acme")
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	contact := "jane@example.com"
	p.PrintResume(&db.FullResume{
		Resume:       db.Resume{ID: 7, JobID: "job-1", Name: "Resume for Initrode", IsVisible: true},
		PersonalInfo: &db.PersonalInfo{Name: "Jane Doe", ContactInfo: &contact},
		Summary:      &db.Summary{Content: "Backend engineer.", IsVisible: true},
		SkillCategories: []db.SkillCategory{
			{Name: "Core Technical Skills", IsVisible: true, Skills: []db.Skill{{Name: "Go"}, {Name: "SQL"}}},
		},
		Experiences: []db.Experience{
			{JobTitle: "Engineer", Company: "Acme", IsVisible: false,
				Accomplishments: []db.JobAccomplishment{{Description: "Built X"}}},
		},
		Educations: []db.Education{{Degree: "BS", Institution: "State University", IsVisible: true}},
		Projects:   []db.Project{{Title: "LogShip", IsVisible: true}},
	})
	output := buf.String()

	assert.Contains(t, output, "#7 Resume for Initrode")
	assert.Contains(t, output, "jane@example.com")
	assert.Contains(t, output, "Core Technical Skills: Go, SQL")
	assert.Contains(t, output, "Engineer, Acme (hidden)")
	assert.Contains(t, output, "• Built X")
	assert.Contains(t, output, "LogShip")
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProgress(pipeline.ProgressEvent{JobID: "job-1", Step: pipeline.StepDone, Message: "resume created", ResumeID: 3})

	assert.Equal(t, "[job-1] done: resume created (resume #3)\n", buf.String())
}

func TestPrintBatchReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBatchReport(&pipeline.BatchReport{
		Outcomes: []pipeline.BatchOutcome{
			{Title: "Backend Engineer", Company: "Initrode", ResumeID: 1},
			{Title: "SRE", Company: "Hooli", ResumeID: 2, Existing: true},
			{Title: "Designer", Company: "Globex", Err: errors.New("boom")},
		},
		Created: 1, Existing: 1, Failed: 1,
	})
	output := buf.String()

	assert.Contains(t, output, "1 created, 1 existing, 1 failed")
	assert.Contains(t, output, "created #1")
	assert.Contains(t, output, "existing #2")
	assert.Contains(t, output, "failed: boom")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))

	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 60))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
