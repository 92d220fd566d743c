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

// GenerateSummary writes a 2 to 4 sentence professional summary aimed at the
// job. The sentence count is a prompt instruction; only emptiness is rejected.
func GenerateSummary(ctx context.Context, gen generation.Generator, in Input) (*types.SummarySection, error) {
	if err := in.validate("summary"); err != nil {
		return nil, err
	}

	var pc promptContext
	pc.requirements(in.Requirements)
	pc.heading("Candidate")
	pc.field("Name", in.Background.PersonalInfo.Name)
	pc.field("Headline", in.Background.PersonalInfo.Headline)
	pc.workHistory(in.Background.WorkHistory)
	pc.skills(in.Background.Skills)
	pc.extra(in.Extra)

	var out types.SummarySection
	if err := gen.Generate(ctx, generation.Request{
		Schema:  schemas.Summary,
		Context: pc.String(),
		Tier:    llm.TierStandard,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	out.Content = strings.TrimSpace(out.Content)
	if out.Content == "" {
		return nil, &generation.SchemaViolationError{Schema: schemas.Summary, Message: "summary content is empty"}
	}
	return &out, nil
}
