package sections

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/types"
	"golang.org/x/sync/errgroup"
)

// Kind names one resume section.
type Kind string

const (
	KindSummary    Kind = "summary"
	KindSkills     Kind = "skills"
	KindExperience Kind = "experience"
	KindEducation  Kind = "education"
	KindProjects   Kind = "projects"
)

// Order is the order sections are generated and committed in sequential mode.
var Order = []Kind{KindSummary, KindSkills, KindExperience, KindEducation, KindProjects}

// Generate runs the generator for kind and stores the result in dst.
func Generate(ctx context.Context, gen generation.Generator, kind Kind, in Input, dst *types.Sections) error {
	var err error
	switch kind {
	case KindSummary:
		dst.Summary, err = GenerateSummary(ctx, gen, in)
	case KindSkills:
		dst.Skills, err = GenerateSkills(ctx, gen, in)
	case KindExperience:
		dst.Experience, err = GenerateExperience(ctx, gen, in)
	case KindEducation:
		dst.Education, err = GenerateEducation(ctx, gen, in)
	case KindProjects:
		dst.Projects, err = GenerateProjects(ctx, gen, in)
	default:
		return fmt.Errorf("unknown section %q", kind)
	}
	return err
}

// GenerateAll produces every section. With parallel set the generators run
// concurrently and the first failure cancels the rest. onDone, if non-nil,
// is called after each section succeeds, concurrently when parallel.
func GenerateAll(ctx context.Context, gen generation.Generator, in Input, parallel bool, onDone func(Kind)) (*types.Sections, error) {
	var out types.Sections
	notify := func(k Kind) {
		if onDone != nil {
			onDone(k)
		}
	}

	if !parallel {
		for _, kind := range Order {
			if err := Generate(ctx, gen, kind, in, &out); err != nil {
				return nil, err
			}
			notify(kind)
		}
		return &out, nil
	}

	// Each goroutine writes a distinct field of out.
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range Order {
		g.Go(func() error {
			if err := Generate(gctx, gen, kind, in, &out); err != nil {
				return err
			}
			notify(kind)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
