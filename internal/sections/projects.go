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

// GenerateProjects selects the projects relevant to the job and orders them
// by relevance. Generated entries whose title does not name an input project
// are discarded, as are repeats and entries with a blank point.
func GenerateProjects(ctx context.Context, gen generation.Generator, in Input) (*types.ProjectsSection, error) {
	if err := in.validate("projects"); err != nil {
		return nil, err
	}
	history := in.Background.Projects
	if len(history) == 0 {
		return &types.ProjectsSection{Entries: []types.ProjectEntry{}}, nil
	}

	var pc promptContext
	pc.requirements(in.Requirements)
	pc.projects(history)
	pc.extra(in.Extra)

	var out types.ProjectsSection
	if err := gen.Generate(ctx, generation.Request{
		Schema:  schemas.Projects,
		Context: pc.String(),
		Tier:    llm.TierStandard,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to generate projects: %w", err)
	}

	byTitle := make(map[string]types.ProjectHistoryItem, len(history))
	for _, p := range history {
		byTitle[titleKey(p.Title)] = p
	}

	used := make(map[string]bool)
	entries := make([]types.ProjectEntry, 0, len(out.Entries))
	for _, e := range out.Entries {
		key := titleKey(e.Title)
		src, ok := byTitle[key]
		technical, impact := strings.TrimSpace(e.TechnicalPoint), strings.TrimSpace(e.ImpactPoint)
		if !ok || used[key] || technical == "" || impact == "" {
			continue
		}
		used[key] = true

		tech := src.Technologies
		if len(tech) == 0 {
			tech = nonEmpty(e.Technologies)
		}
		entries = append(entries, types.ProjectEntry{
			Title:          src.Title,
			Technologies:   tech,
			Link:           src.Link,
			TechnicalPoint: technical,
			ImpactPoint:    impact,
			DisplayOrder:   len(entries),
		})
	}
	return &types.ProjectsSection{Entries: entries}, nil
}

func titleKey(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
