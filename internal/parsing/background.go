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

// ParseBackground extracts personal info, work history, education, skills,
// and projects from raw background text. Output is checked against the input
// with CheckGrounding.
func ParseBackground(ctx context.Context, gen generation.Generator, text string) (*types.ParsedBackground, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "background", Message: "background text is required"}
	}

	var bg types.ParsedBackground
	err := gen.Generate(ctx, generation.Request{
		Schema:  schemas.ParsedBackground,
		Context: text,
		Tier:    llm.TierLite,
	}, &bg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse background: %w", err)
	}

	normalizeContacts(&bg.PersonalInfo)
	if err := CheckGrounding(text, &bg); err != nil {
		return nil, err
	}
	return &bg, nil
}

func normalizeContacts(p *types.PersonalInfo) {
	for i := range p.Contacts {
		c := &p.Contacts[i]
		c.Label = strings.TrimSpace(c.Label)
		c.Value = strings.TrimSpace(c.Value)
		c.Kind = NormalizeContactKind(string(c.Kind), c.Label, c.Value)
	}
}

// CondensedContact joins the email and phone values with " | ".
func CondensedContact(p *types.PersonalInfo) string {
	var parts []string
	for _, kind := range []types.ContactKind{types.ContactEmail, types.ContactPhone} {
		for _, c := range p.Contacts {
			if c.Kind == kind && c.Value != "" {
				parts = append(parts, c.Value)
				break
			}
		}
	}
	return strings.Join(parts, " | ")
}
