// Package ingestion loads job postings from scraper output files and job board URLs.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\p{Zs}]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	bulletGlyph = regexp.MustCompile(`^[•·▪●◦]\s*`)
)

// CleanText normalizes posting text while keeping its line structure.
// Bullet glyphs are rewritten as "- " and blank runs collapse to one empty line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	out := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	if bulletGlyph.MatchString(line) {
		line = "- " + bulletGlyph.ReplaceAllString(line, "")
	} else if strings.HasPrefix(line, "* ") {
		line = "- " + strings.TrimSpace(line[2:])
	}
	return innerSpace.ReplaceAllString(line, " ")
}
