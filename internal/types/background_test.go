package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestContactKind_Icon(t *testing.T) {
	tests := []struct {
		kind ContactKind
		want string
	}{
		{ContactEmail, "fas fa-envelope"},
		{ContactPhone, "fas fa-phone"},
		{ContactLinkedIn, "fab fa-linkedin"},
		{ContactGitHub, "fab fa-github"},
		{ContactWebsite, "fas fa-globe"},
		{ContactKind("Fax"), "fas fa-globe"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Icon())
		})
	}
}

func TestContactKind_Valid(t *testing.T) {
	assert.True(t, ContactGitHub.Valid())
	assert.False(t, ContactKind("github").Valid())
	assert.False(t, ContactKind("").Valid())
}

func TestProjectEntry_Description(t *testing.T) {
	p := ProjectEntry{TechnicalPoint: "Built a Go ingestion service.", ImpactPoint: "Cut latency by 40%."}
	assert.Equal(t, "Built a Go ingestion service.\nCut latency by 40%.", p.Description())
}

func TestSectionValidation(t *testing.T) {
	v := validator.New()
	over := 120

	assert.Error(t, v.Struct(SkillsSection{}))
	assert.Error(t, v.Struct(SkillsSection{Categories: []SkillCategory{{Name: "Core", Skills: []Skill{{Name: "Go", Proficiency: &over}}}}}))
	assert.NoError(t, v.Struct(SkillsSection{Categories: []SkillCategory{{Name: "Core", Skills: []Skill{{Name: "Go"}}}}}))

	assert.Error(t, v.Struct(ParsedBackground{}))
	assert.NoError(t, v.Struct(ParsedBackground{PersonalInfo: PersonalInfo{Name: "Jane Doe"}}))
}
