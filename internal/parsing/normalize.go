package parsing

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-synth/internal/types"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"react.js":   "React",
	"reactjs":    "React",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"python":     "Python",
	"sql":        "SQL",
}

// NormalizeSkillName returns the canonical spelling of a skill
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}
	if canonical, ok := skillNormalizations[strings.ToLower(normalized)]; ok {
		return canonical
	}
	return normalized
}

// SkillKey is the case-insensitive comparison key for a skill
func SkillKey(skillName string) string {
	return strings.ToLower(NormalizeSkillName(skillName))
}

// skillAliases returns every spelling that normalizes to the same canonical skill
func skillAliases(skillName string) []string {
	canonical := NormalizeSkillName(skillName)
	aliases := []string{skillName, canonical}
	for variant, c := range skillNormalizations {
		if c == canonical {
			aliases = append(aliases, variant)
		}
	}
	return aliases
}

// tokenize lowercases text and splits it into word tokens. '+' and '#' are
// word characters so C++ and C# survive.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

// dottedWords is tokenize with '.' kept inside words, so "Node.js" stays
// one word. Trailing periods are stripped.
func dottedWords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
	for i, w := range words {
		words[i] = strings.Trim(w, ".")
	}
	return words
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// numbers extracts numeric literals (metrics, years) from text
func numbers(text string) []string {
	return numberPattern.FindAllString(text, -1)
}

// NormalizeContactKind maps a label and value onto the contact vocabulary
func NormalizeContactKind(kind, label, value string) types.ContactKind {
	for _, candidate := range []string{kind, label} {
		switch strings.ToLower(strings.TrimSpace(candidate)) {
		case "email", "e-mail", "mail":
			return types.ContactEmail
		case "phone", "mobile", "cell", "telephone", "tel":
			return types.ContactPhone
		case "linkedin":
			return types.ContactLinkedIn
		case "github":
			return types.ContactGitHub
		case "website", "portfolio", "blog", "homepage", "site", "url":
			return types.ContactWebsite
		}
	}

	lower := strings.ToLower(value)
	switch {
	case strings.Contains(lower, "linkedin.com"):
		return types.ContactLinkedIn
	case strings.Contains(lower, "github.com"):
		return types.ContactGitHub
	case strings.Contains(lower, "@") && !strings.Contains(lower, "/"):
		return types.ContactEmail
	case looksLikePhone(value):
		return types.ContactPhone
	default:
		return types.ContactWebsite
	}
}

func looksLikePhone(value string) bool {
	digits := 0
	for _, r := range value {
		switch {
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune(" +-().", r):
		default:
			return false
		}
	}
	return digits >= 7
}
