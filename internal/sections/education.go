package sections

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/llm"
	"github.com/jonathan/resume-synth/internal/schemas"
	"github.com/jonathan/resume-synth/internal/types"
)

// EducationDescriptionLength is the target description length given to the
// generator. Longer descriptions are kept as generated.
const EducationDescriptionLength = 100

// GenerateEducation writes a short job-relevant description for each
// education item. Entries mirror the input one to one.
func GenerateEducation(ctx context.Context, gen generation.Generator, in Input) (*types.EducationSection, error) {
	if err := in.validate("education"); err != nil {
		return nil, err
	}
	history := in.Background.Education
	if len(history) == 0 {
		return &types.EducationSection{Entries: []types.EducationEntry{}}, nil
	}

	var pc promptContext
	pc.requirements(in.Requirements)
	pc.education(history)
	pc.extra(in.Extra)

	var out types.EducationSection
	if err := gen.Generate(ctx, generation.Request{
		Schema:  schemas.Education,
		Context: pc.String(),
		Tier:    llm.TierLite,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to generate education: %w", err)
	}
	if len(out.Entries) != len(history) {
		return nil, countMismatch(schemas.Education, len(history), len(out.Entries))
	}

	entries := make([]types.EducationEntry, len(history))
	for i, src := range history {
		desc := strings.TrimSpace(out.Entries[i].Description)
		if desc == "" {
			desc = src.Details
		}
		entries[i] = types.EducationEntry{
			Degree:       src.Degree,
			Institution:  src.Institution,
			Location:     src.Location,
			DateRange:    src.DateRange,
			Description:  desc,
			DisplayOrder: i,
		}
	}
	return &types.EducationSection{Entries: entries}, nil
}
