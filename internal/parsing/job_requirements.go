// Package parsing turns raw job postings and raw background text into the
// structured inputs of section generation.
package parsing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/llm"
	"github.com/jonathan/resume-synth/internal/schemas"
	"github.com/jonathan/resume-synth/internal/types"
)

// AnalyzeJob fills the derived fields of a job requirements draft from its
// posting text. Fields the generator omits keep their draft value and the
// job description is preserved verbatim. The draft is not modified.
func AnalyzeJob(ctx context.Context, gen generation.Generator, draft *types.JobRequirements) (*types.JobRequirements, error) {
	if draft == nil || strings.TrimSpace(draft.JobDescription) == "" {
		return nil, &ValidationError{Field: "job_description", Message: "job posting text is required"}
	}

	var analysis types.JobAnalysis
	err := gen.Generate(ctx, generation.Request{
		Schema:  schemas.JobAnalysis,
		Context: jobAnalysisContext(draft),
		Tier:    llm.TierLite,
	}, &analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze job posting: %w", err)
	}

	out := *draft
	analysis.MergeInto(&out)
	return &out, nil
}

func jobAnalysisContext(d *types.JobRequirements) string {
	var sb strings.Builder
	writeField(&sb, "Company", d.CompanyName)
	writeField(&sb, "Job Title", d.JobTitle)
	writeField(&sb, "Location", d.Location)
	writeField(&sb, "Seniority Level", d.SeniorityLevel)
	sb.WriteString("\nJob Description:\n")
	sb.WriteString(d.JobDescription)
	return sb.String()
}

func writeField(sb *strings.Builder, name, value string) {
	if value != "" {
		fmt.Fprintf(sb, "%s: %s\n", name, value)
	}
}
