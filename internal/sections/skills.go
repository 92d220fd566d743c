package sections

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/llm"
	"github.com/jonathan/resume-synth/internal/parsing"
	"github.com/jonathan/resume-synth/internal/schemas"
	"github.com/jonathan/resume-synth/internal/types"
)

// Conventional category names. The category set is open; generators may
// return any non-empty name.
const (
	CategoryCoreTechnical   = "Core Technical"
	CategoryToolsPlatforms  = "Tools & Platforms"
	CategoryDomainExpertise = "Domain Expertise"
	CategoryMethodologies   = "Methodologies"
	CategorySoftSkills      = "Soft Skills"
)

// GenerateSkills groups the candidate's skills into categories with
// proficiency scores, emphasizing skills the job asks for.
func GenerateSkills(ctx context.Context, gen generation.Generator, in Input) (*types.SkillsSection, error) {
	if err := in.validate("skills"); err != nil {
		return nil, err
	}

	var pc promptContext
	pc.requirements(in.Requirements)
	pc.skills(in.Background.Skills)
	pc.workHistory(in.Background.WorkHistory)
	pc.extra(in.Extra)

	var out types.SkillsSection
	if err := gen.Generate(ctx, generation.Request{
		Schema:  schemas.Skills,
		Context: pc.String(),
		Tier:    llm.TierStandard,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to generate skills: %w", err)
	}

	cleanSkills(&out, in.Background.Skills, in.Requirements.RequiredSkillList())
	if len(out.Categories) == 0 {
		return nil, &generation.SchemaViolationError{Schema: schemas.Skills, Message: "no non-empty skill categories"}
	}
	return &out, nil
}

// cleanSkills drops skills named neither in the background nor in the job's
// required skills, then drops empty categories and duplicates across the
// section. Proficiency is clamped and required skills move to the front of
// each category while keeping generated order otherwise.
func cleanSkills(s *types.SkillsSection, background, required []string) {
	requiredKeys := make(map[string]bool, len(required))
	for _, r := range required {
		requiredKeys[parsing.SkillKey(r)] = true
	}
	known := make(map[string]bool, len(background)+len(required))
	for _, b := range background {
		known[parsing.SkillKey(b)] = true
	}
	for k := range requiredKeys {
		known[k] = true
	}

	seen := make(map[string]bool)
	categories := s.Categories[:0]
	for _, cat := range s.Categories {
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.Name == "" {
			continue
		}

		skills := make([]types.Skill, 0, len(cat.Skills))
		for _, sk := range cat.Skills {
			key := parsing.SkillKey(sk.Name)
			if key == "" || !known[key] || seen[key] {
				continue
			}
			seen[key] = true
			sk.Name = parsing.NormalizeSkillName(sk.Name)
			sk.Proficiency = clampProficiency(sk.Proficiency)
			skills = append(skills, sk)
		}
		if len(skills) == 0 {
			continue
		}

		sort.SliceStable(skills, func(i, j int) bool {
			return requiredKeys[parsing.SkillKey(skills[i].Name)] && !requiredKeys[parsing.SkillKey(skills[j].Name)]
		})
		cat.Skills = skills
		categories = append(categories, cat)
	}
	s.Categories = categories
}

func clampProficiency(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}
