package parsing

import (
	"testing"

	"github.com/jonathan/resume-synth/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"golang", "Go"},
		{"  k8s ", "Kubernetes"},
		{"NodeJS", "Node.js"},
		{"postgres", "PostgreSQL"},
		{"Distributed   Systems", "Distributed Systems"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(tt.input))
		})
	}
}

func TestSkillKey(t *testing.T) {
	assert.Equal(t, SkillKey("Golang"), SkillKey("go"))
	assert.Equal(t, "python", SkillKey("PYTHON"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"c++", "and", "c#", "node", "js"}, tokenize("C++ and C#, Node.js"))
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, []string{"40", "2,000", "3.5"}, numbers("cut latency 40% for 2,000 users in 3.5 months"))
}

func TestNormalizeContactKind(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		label string
		value string
		want  types.ContactKind
	}{
		{name: "explicit kind", kind: "GitHub", value: "octocat", want: types.ContactGitHub},
		{name: "label mail", label: "E-mail", value: "a@b.co", want: types.ContactEmail},
		{name: "inferred email", label: "Contact", value: "a@b.co", want: types.ContactEmail},
		{name: "inferred phone", label: "Contact", value: "+1 (555) 123-4567", want: types.ContactPhone},
		{name: "inferred linkedin", value: "https://www.linkedin.com/in/jane", want: types.ContactLinkedIn},
		{name: "inferred github", value: "github.com/jane", want: types.ContactGitHub},
		{name: "fallback website", label: "Other", value: "https://jane.dev", want: types.ContactWebsite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeContactKind(tt.kind, tt.label, tt.value))
		})
	}
}
