package parsing

import (
	"strings"

	"github.com/jonathan/resume-synth/internal/types"
)

// groundingIndex answers "does this phrase occur in the source text" on
// normalized word tokens.
type groundingIndex struct {
	tokens  []string
	words   map[string]bool
	numbers map[string]bool
}

func newGroundingIndex(source string) *groundingIndex {
	idx := &groundingIndex{
		tokens:  tokenize(source),
		words:   make(map[string]bool),
		numbers: make(map[string]bool),
	}
	for _, w := range dottedWords(source) {
		idx.words[w] = true
	}
	for _, n := range numbers(source) {
		idx.numbers[n] = true
	}
	return idx
}

// contains reports whether phrase appears as a contiguous token run
func (g *groundingIndex) contains(phrase string) bool {
	want := tokenize(phrase)
	if len(want) == 0 {
		return true
	}
	for i := 0; i+len(want) <= len(g.tokens); i++ {
		match := true
		for j := range want {
			if g.tokens[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// containsSkill matches any spelling of skill. Aliases of one or two
// letters must stand alone in the source, so "Node.js" does not ground "JS".
func (g *groundingIndex) containsSkill(skill string) bool {
	for _, alias := range skillAliases(skill) {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if len([]rune(alias)) <= 2 {
			if g.words[alias] {
				return true
			}
			continue
		}
		if g.contains(alias) {
			return true
		}
	}
	return false
}

// ungroundedNumbers returns numeric literals in text that the source lacks
func (g *groundingIndex) ungroundedNumbers(text string) []string {
	var missing []string
	for _, n := range numbers(text) {
		if !g.numbers[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

// CheckGrounding enforces the closed-world contract on parser output.
// Skills absent from source are dropped. Job titles, companies, degrees,
// institutions, project titles and numeric literals absent from source are
// violations.
func CheckGrounding(source string, bg *types.ParsedBackground) error {
	idx := newGroundingIndex(source)
	var violations []GroundingViolation

	add := func(field, value string) {
		violations = append(violations, GroundingViolation{Field: field, Value: value})
	}
	checkNumbers := func(field, text string) {
		for _, n := range idx.ungroundedNumbers(text) {
			add(field, n)
		}
	}

	for _, w := range bg.WorkHistory {
		if !idx.contains(w.Title) {
			add("work_history.title", w.Title)
		}
		if !idx.contains(w.Company) {
			add("work_history.company", w.Company)
		}
		checkNumbers("work_history.date_range", w.DateRange)
		for _, r := range w.Responsibilities {
			checkNumbers("work_history.responsibilities", r)
		}
	}
	for _, e := range bg.Education {
		if !idx.contains(e.Degree) {
			add("education.degree", e.Degree)
		}
		if !idx.contains(e.Institution) {
			add("education.institution", e.Institution)
		}
		checkNumbers("education.date_range", e.DateRange)
	}
	for _, p := range bg.Projects {
		if !idx.contains(p.Title) {
			add("projects.title", p.Title)
		}
		checkNumbers("projects.description", p.Description)
	}

	kept := bg.Skills[:0]
	for _, s := range bg.Skills {
		if strings.TrimSpace(s) != "" && idx.containsSkill(s) {
			kept = append(kept, s)
		}
	}
	bg.Skills = kept

	if len(violations) > 0 {
		return &GroundingError{Violations: violations}
	}
	return nil
}
