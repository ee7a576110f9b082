package devex

import (
	"strings"
	"testing"
	"time"

	"aidjobs-engine/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

const cardFixture = `<html><body>
<div class="job-card listing">
  <h3>Monitoring Specialist at Chemonics</h3>
  <a href="/jobs/monitoring-specialist-12345">view</a>
</div>
<div class="job-item">
  <h2>Impact Assessment Lead - Abt Associates</h2>
  <a href="https://www.devex.com/jobs/impact-assessment-lead-12346">view</a>
</div>
<div class="job-item">
  <h3>No link card</h3>
</div>
</body></html>`

const articleFixture = `<html><body>
<article>
  <h3>Health Program Manager</h3>
  <a href="/jobs/health-program-manager-12347">view</a>
</article>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseSearchHTMLCards(t *testing.T) {
	jobs := parseSearchHTML(mustDoc(t, cardFixture), "monitoring", 10, testNow)
	require.Len(t, jobs, 2) // linkless card skipped

	first := jobs[0]
	require.Equal(t, "Monitoring Specialist at Chemonics", first.Title)
	require.Equal(t, "Chemonics", first.Organization)
	require.Equal(t, "https://www.devex.com/jobs/monitoring-specialist-12345", first.URL)
	require.Equal(t, "Global", first.Location)
	require.Equal(t, domain.SourceDevex, first.Source)
	require.True(t, first.IsRecent)

	require.Equal(t, "Abt Associates", jobs[1].Organization)
}

func TestParseSearchHTMLArticleFallback(t *testing.T) {
	jobs := parseSearchHTML(mustDoc(t, articleFixture), "health", 10, testNow)
	require.Len(t, jobs, 1)
	require.Equal(t, "Development Organization", jobs[0].Organization)
}

func TestParseSearchHTMLLimit(t *testing.T) {
	jobs := parseSearchHTML(mustDoc(t, cardFixture), "monitoring", 1, testNow)
	require.Len(t, jobs, 1)
}

func TestExtractOrganization(t *testing.T) {
	require.Equal(t, "Development Organization", extractOrganization("Senior Evaluator"))
}
