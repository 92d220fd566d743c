package ingestion

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-synth/internal/db"
)

var validate = validator.New()

// FileEntry is one posting as written by the job board scrapers.
// Both "id" and "job_id" are accepted for the posting identifier.
type FileEntry struct {
	ID             string `json:"id"`
	JobID          string `json:"job_id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	SeniorityLevel string `json:"seniority_level"`
	ApplicationURL string `json:"application_url"`
	ScrapedDate    string `json:"scraped_date"`
}

// Skipped records a file entry that could not be ingested.
type Skipped struct {
	Index  int
	Title  string
	Reason string
}

// LoadJobsFile reads a scraper output file. The file may hold either
// {"jobs": [...]} or a bare array of postings. Incomplete entries are
// returned in the skipped list rather than failing the whole file.
func LoadJobsFile(path string) ([]db.JobCreateInput, []Skipped, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("jobs file not found: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to read jobs file: %w", err)
	}
	return ParseJobs(data)
}

// ParseJobs decodes scraper output already in memory.
func ParseJobs(data []byte) ([]db.JobCreateInput, []Skipped, error) {
	entries, err := decodeEntries(data)
	if err != nil {
		return nil, nil, err
	}

	var jobs []db.JobCreateInput
	var skipped []Skipped
	for i, e := range entries {
		in, reason := e.toInput()
		if reason != "" {
			skipped = append(skipped, Skipped{Index: i, Title: e.Title, Reason: reason})
			continue
		}
		jobs = append(jobs, *in)
	}
	return jobs, skipped, nil
}

func decodeEntries(data []byte) ([]FileEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("jobs file is empty")
	}
	if trimmed[0] == '[' {
		var entries []FileEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse jobs JSON: %w", err)
		}
		return entries, nil
	}
	var wrapper struct {
		Jobs []FileEntry `json:"jobs"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse jobs JSON: %w", err)
	}
	return wrapper.Jobs, nil
}

func (e FileEntry) toInput() (*db.JobCreateInput, string) {
	externalID := strings.TrimSpace(e.ID)
	if externalID == "" {
		externalID = strings.TrimSpace(e.JobID)
	}
	description := CleanText(e.Description)
	if description == "" {
		return nil, "missing description"
	}
	if externalID == "" {
		externalID = ContentID(e.Company, e.Title, description)
	}

	in := &db.JobCreateInput{
		ExternalID:     externalID,
		Title:          strings.TrimSpace(e.Title),
		Company:        strings.TrimSpace(e.Company),
		Location:       strings.TrimSpace(e.Location),
		Description:    description,
		SeniorityLevel: strings.TrimSpace(e.SeniorityLevel),
		ApplicationURL: strings.TrimSpace(e.ApplicationURL),
	}
	if ts, ok := parseScrapedDate(e.ScrapedDate); ok {
		in.ScrapedAt = &ts
	}
	if err := validate.Struct(in); err != nil {
		return nil, err.Error()
	}
	return in, ""
}

var scrapedDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseScrapedDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range scrapedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ContentID derives a stable external id for postings without one.
func ContentID(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "sha256-" + hex.EncodeToString(hash[:])[:16]
}
