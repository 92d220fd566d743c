package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-synth/internal/fetch"
)

const postingPage = `<html><head>
<meta property="og:site_name" content="Initrode Careers">
</head><body>
<nav>Jobs Home</nav>
<h1>Backend   Engineer</h1>
<div class="location">Remote, US</div>
<div class="job-description">
  <h2>About the role</h2>
  <p>Build   payment services in Go.</p>
  <form>Apply now</form>
</div>
<footer>Copyright</footer>
</body></html>`

func servePage(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFromURL_GenericPage(t *testing.T) {
	srv := servePage(t, http.StatusOK, postingPage)
	pageURL := srv.URL + "/jobs/42"

	in, err := FromURL(context.Background(), pageURL, URLOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", in.Title)
	assert.Equal(t, "Initrode Careers", in.Company)
	assert.Equal(t, "Remote, US", in.Location)
	assert.Equal(t, "About the role\nBuild payment services in Go.", in.Description)
	assert.Equal(t, pageURL, in.ApplicationURL)
	assert.Equal(t, ContentID(pageURL), in.ExternalID)
	assert.NotContains(t, in.Description, "Apply now")
}

func TestFromURL_MissingCompany(t *testing.T) {
	page := strings.Replace(postingPage, `<meta property="og:site_name" content="Initrode Careers">`, "", 1)
	srv := servePage(t, http.StatusOK, page)

	_, err := FromURL(context.Background(), srv.URL, URLOptions{})
	assert.ErrorIs(t, err, ErrContentExtractionFailed)
}

func TestFromURL_HTTPError(t *testing.T) {
	srv := servePage(t, http.StatusNotFound, "gone")

	_, err := FromURL(context.Background(), srv.URL, URLOptions{})
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
	assert.ErrorContains(t, err, "HTTP status 404")
}

func TestFromURL_InvalidURL(t *testing.T) {
	_, err := FromURL(context.Background(), "ftp://example.com/job", URLOptions{})
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestFromURL_EmptyBody(t *testing.T) {
	srv := servePage(t, http.StatusOK, `<html><body><nav>menu</nav></body></html>`)

	_, err := FromURL(context.Background(), srv.URL, URLOptions{})
	assert.ErrorIs(t, err, ErrContentExtractionFailed)
}

func TestExtractPosting_LinkedInCompanyImage(t *testing.T) {
	page := `<html><body>
<section class="top-card-layout__card">
  <a href="/company/initrode"><img alt="Initrode" src="logo.png"></a>
  <h1 class="top-card-layout__title">Staff Engineer</h1>
</section>
<ul class="description__job-criteria-list">
  <li><span class="description__job-criteria-text">Mid-Senior level</span></li>
</ul>
<div class="description__text">Own the platform.</div>
</body></html>`

	in, text, err := extractPosting(page, fetch.PlatformSelectors(fetch.PlatformLinkedIn))
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", in.Title)
	assert.Equal(t, "Initrode", in.Company)
	assert.Equal(t, "Mid-Senior level", in.SeniorityLevel)
	assert.Equal(t, "Own the platform.", text)
}
