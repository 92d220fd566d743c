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

// GenerateExperience rewrites the accomplishments of every work history
// item. The result has one entry per input item in input order, with
// DisplayOrder equal to the input index. Title, company, location, and dates
// always come from the input.
func GenerateExperience(ctx context.Context, gen generation.Generator, in Input) (*types.ExperienceSection, error) {
	if err := in.validate("experience"); err != nil {
		return nil, err
	}
	history := in.Background.WorkHistory
	if len(history) == 0 {
		return &types.ExperienceSection{Entries: []types.ExperienceEntry{}}, nil
	}

	var pc promptContext
	pc.requirements(in.Requirements)
	pc.workHistory(history)
	pc.extra(in.Extra)

	var out types.ExperienceSection
	if err := gen.Generate(ctx, generation.Request{
		Schema:  schemas.Experience,
		Context: pc.String(),
		Tier:    llm.TierStandard,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to generate experience: %w", err)
	}
	if len(out.Entries) != len(history) {
		return nil, countMismatch(schemas.Experience, len(history), len(out.Entries))
	}

	entries := make([]types.ExperienceEntry, len(history))
	for i, src := range history {
		bullets := nonEmpty(out.Entries[i].Accomplishments)
		if len(bullets) == 0 {
			bullets = nonEmpty(src.Responsibilities)
		}
		entries[i] = types.ExperienceEntry{
			JobTitle:        src.Title,
			Company:         src.Company,
			Location:        src.Location,
			DateRange:       src.DateRange,
			Accomplishments: bullets,
			DisplayOrder:    i,
		}
	}
	return &types.ExperienceSection{Entries: entries}, nil
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
