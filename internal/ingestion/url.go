package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/fetch"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = errors.New("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no posting could be read from the page
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// URLOptions controls FromURL.
type URLOptions struct {
	// UseBrowser renders the page with headless Chrome when the plain
	// HTTP response carries too little text.
	UseBrowser     bool
	BrowserTimeout time.Duration
	Fetch          *fetch.Options
	Verbose        bool
}

// FromURL fetches a job posting page and turns it into a job row.
func FromURL(ctx context.Context, urlStr string, opts URLOptions) (*db.JobCreateInput, error) {
	if err := fetch.ValidateURL(urlStr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	platform := fetch.DetectPlatform(urlStr)
	selectors := fetch.PlatformSelectors(platform)
	if opts.Verbose {
		log.Printf("[VERBOSE] URL: %s (platform %s)", urlStr, platform)
	}

	result, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	in, text, err := extractPosting(result.HTML, selectors)
	if err != nil {
		return nil, err
	}

	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		if opts.Verbose {
			log.Printf("[VERBOSE] Content too short (%d chars), rendering with browser", len(text))
		}
		rendered, renderErr := fetch.Render(ctx, urlStr, opts.BrowserTimeout)
		if renderErr != nil {
			log.Printf("[ingest] browser rendering failed for %s: %v", urlStr, renderErr)
		} else if rin, rtext, rerr := extractPosting(rendered, selectors); rerr == nil && len(rtext) > len(text) {
			in, text = rin, rtext
		}
	}

	in.Description = CleanText(text)
	if in.Description == "" {
		return nil, fmt.Errorf("%w: no posting text found", ErrContentExtractionFailed)
	}
	in.ApplicationURL = urlStr
	in.ExternalID = fetch.PostingID(urlStr)
	if in.ExternalID == "" {
		in.ExternalID = ContentID(urlStr)
	}

	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Extracted %q at %q (%d chars)", in.Title, in.Company, len(in.Description))
	}
	return in, nil
}

// extractPosting reads the header fields first because text extraction
// strips page chrome from the document.
func extractPosting(html string, s fetch.Selectors) (*db.JobCreateInput, string, error) {
	doc, err := fetch.ParseHTML(html)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	root := doc.Selection

	in := &db.JobCreateInput{
		Title:          fetch.FirstText(root, s.Title...),
		Company:        fetch.FirstText(root, s.Company...),
		Location:       fetch.FirstText(root, s.Location...),
		SeniorityLevel: fetch.FirstText(root, s.Seniority...),
	}
	if in.Company == "" {
		in.Company = imageAlt(root, s.CompanyImage)
	}
	if in.Title == "" {
		in.Title = fetch.MetaContent(root, "og:title", "twitter:title")
	}
	if in.Company == "" {
		in.Company = fetch.MetaContent(root, "og:site_name")
	}

	text := fetch.MainText(doc, s.Content, s.Noise...)
	return in, text, nil
}

func imageAlt(root *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if alt, ok := root.Find(selector).First().Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			return strings.TrimSpace(alt)
		}
	}
	return ""
}
