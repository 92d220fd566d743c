package fetch

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	PlatformLinkedIn   Platform = "linkedin"
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case strings.HasSuffix(host, "linkedin.com"):
		return PlatformLinkedIn
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com"), strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	default:
		return PlatformUnknown
	}
}

// Selectors locate the parts of a job posting page.
type Selectors struct {
	Content []string
	Noise   []string
	Title   []string
	Company []string
	// CompanyImage selects logo images whose alt text is the company name
	CompanyImage []string
	Location     []string
	Seniority    []string
}

var genericSelectors = Selectors{
	Content: []string{
		".job-description", "#job-description", ".job-content", ".posting-content",
		".job-details", "[data-testid='job-description']", "main", "article", "#content",
	},
	Title:    []string{"h1", ".job-title", "[data-testid='job-title']"},
	Company:  []string{".company-name", "[data-testid='company-name']"},
	Location: []string{".location", ".job-location", "[data-testid='job-location']"},
}

var platformSelectors = map[Platform]Selectors{
	PlatformLinkedIn: {
		Content:      []string{".description__text", ".show-more-less-html__markup"},
		Noise:        []string{".description__job-criteria-list", ".similar-jobs", ".apply-button"},
		Title:        []string{".top-card-layout__title", ".topcard__title", "h1"},
		Company:      []string{".topcard__org-name-link"},
		CompanyImage: []string{".top-card-layout__card a img"},
		Location:     []string{".topcard__flavor--bullet", ".topcard__flavor-row"},
		Seniority:    []string{".description__job-criteria-list li:first-child .description__job-criteria-text"},
	},
	PlatformGreenhouse: {
		Content:  []string{".job__description.body", ".job__description", "#content", ".job-post-container"},
		Noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section"},
		Title:    []string{".job__title h1", ".app-title", "h1"},
		Company:  []string{".company-name"},
		Location: []string{".job__location", ".location"},
	},
	PlatformLever: {
		Content:  []string{".posting-page .section-wrapper.page-full-width", ".posting-description", ".content"},
		Noise:    []string{".apply-section", ".posting-apply"},
		Title:    []string{".posting-headline h2", "h2"},
		Location: []string{".posting-categories .location", ".sort-by-location"},
	},
	PlatformWorkday: {
		Content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		Noise:    []string{"[data-automation-id='applyButton']"},
		Title:    []string{"[data-automation-id='jobPostingHeader']", "h2"},
		Location: []string{"[data-automation-id='locations'] dd"},
	},
}

// PlatformSelectors returns the page selectors for a platform, falling back
// to generic selectors for fields the platform does not define.
func PlatformSelectors(platform Platform) Selectors {
	s, ok := platformSelectors[platform]
	if !ok {
		return genericSelectors
	}
	if len(s.Content) == 0 {
		s.Content = genericSelectors.Content
	}
	s.Content = append(s.Content[:len(s.Content):len(s.Content)], "main", "article")
	if len(s.Title) == 0 {
		s.Title = genericSelectors.Title
	}
	if len(s.Company) == 0 {
		s.Company = genericSelectors.Company
	}
	if len(s.Location) == 0 {
		s.Location = genericSelectors.Location
	}
	return s
}

var linkedInJobID = regexp.MustCompile(`/jobs/view/(?:[^/]*-)?(\d+)`)

// PostingID extracts the job board's own posting id from a URL, or "".
func PostingID(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	switch DetectPlatform(urlStr) {
	case PlatformLinkedIn:
		if m := linkedInJobID.FindStringSubmatch(parsed.Path); m != nil {
			return m[1]
		}
		if id := parsed.Query().Get("currentJobId"); id != "" {
			return id
		}
	case PlatformGreenhouse, PlatformLever:
		parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if len(parts) > 0 && parts[len(parts)-1] != "" {
			return string(DetectPlatform(urlStr)) + "-" + parts[len(parts)-1]
		}
	}
	return ""
}
