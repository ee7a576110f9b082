package reliefweb

import (
	"strings"
	"testing"
	"time"

	"aidjobs-engine/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

const apiFixture = `{
  "data": [
    {
      "id": "4112233",
      "fields": {
        "title": "Monitoring and Evaluation Officer",
        "source": [{"name": "Save the Children"}],
        "country": [{"name": "Kenya"}, {"name": "Somalia"}],
        "date": {"created": "2025-01-05T08:00:00+00:00"}
      }
    },
    {
      "id": "4112234",
      "fields": {
        "title": "",
        "source": [{"name": "Nameless Org"}]
      }
    },
    {
      "id": "4112235",
      "fields": {
        "title": "Health Data Analyst"
      }
    }
  ]
}`

func TestParseAPI(t *testing.T) {
	jobs, err := parseAPI(strings.NewReader(apiFixture), "monitoring and evaluation", 20, testNow)
	require.NoError(t, err)
	require.Len(t, jobs, 2) // untitled item skipped

	first := jobs[0]
	require.Equal(t, "Monitoring and Evaluation Officer", first.Title)
	require.Equal(t, "Save the Children", first.Organization)
	require.Equal(t, "Kenya, Somalia", first.Location)
	require.Equal(t, "https://reliefweb.int/job/4112233", first.URL)
	require.Equal(t, domain.SourceReliefWeb, first.Source)
	require.Equal(t, "monitoring and evaluation", first.SearchTerm)

	second := jobs[1]
	require.Equal(t, "Unknown Organization", second.Organization)
	require.Equal(t, "Multiple Locations", second.Location)
	require.Equal(t, "Unknown", second.DatePosted)
	require.False(t, second.IsRecent)
}

func TestParseAPIHonorsLimit(t *testing.T) {
	jobs, err := parseAPI(strings.NewReader(apiFixture), "health", 1, testNow)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
}

func TestParseAPIRejectsGarbage(t *testing.T) {
	_, err := parseAPI(strings.NewReader("<html>not json</html>"), "health", 5, testNow)
	require.Error(t, err)
}

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>ReliefWeb - Jobs</title>
    <item>
      <title>Epidemiology Advisor</title>
      <link>https://reliefweb.int/job/4112300</link>
      <pubDate>Sun, 05 Jan 2025 09:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Nutrition Survey Lead</title>
      <link>https://reliefweb.int/job/4112301</link>
    </item>
  </channel>
</rss>`

func TestPostingsFromFeed(t *testing.T) {
	feed, err := gofeed.NewParser().Parse(strings.NewReader(rssFixture))
	require.NoError(t, err)

	jobs := postingsFromFeed(feed, "epidemiology", 10, testNow)
	require.Len(t, jobs, 2)
	require.Equal(t, "Epidemiology Advisor", jobs[0].Title)
	require.Equal(t, "https://reliefweb.int/job/4112300", jobs[0].URL)
	require.True(t, jobs[0].IsRecent) // pubDate contains today's "05 Jan 2025"
	require.Equal(t, "Unknown", jobs[1].DatePosted)
}

const htmlFixture = `<html><body>
<article class="rw-river-article rw-river-article--job">
  <h3 class="rw-river-article__title"><a href="/job/4112400">HIV Program M&amp;E Specialist</a></h3>
  <dl><dt>Organization</dt><dd>UNAIDS</dd></dl>
  <span class="rw-river-article__country">Uganda</span>
  <time>4 hours ago</time>
</article>
<article class="rw-river-article rw-river-article--job">
  <h3><a href="https://reliefweb.int/job/4112401">Health Systems Consultant</a></h3>
</article>
<article class="rw-river-article rw-river-article--job">
  <h3><a href="">missing href</a></h3>
</article>
</body></html>`

func TestParseSearchHTML(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlFixture))
	require.NoError(t, err)

	jobs := parseSearchHTML(doc, "public health data", 10, testNow)
	require.Len(t, jobs, 2)

	require.Equal(t, "HIV Program M&E Specialist", jobs[0].Title)
	require.Equal(t, "https://reliefweb.int/job/4112400", jobs[0].URL)
	require.Equal(t, "UNAIDS", jobs[0].Organization)
	require.Equal(t, "Uganda", jobs[0].Location)
	require.True(t, jobs[0].IsRecent)

	require.Equal(t, "Unknown Organization", jobs[1].Organization)
	require.Equal(t, "Multiple Locations", jobs[1].Location)
}
