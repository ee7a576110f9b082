package devex

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"aidjobs-engine/internal/domain"
	"aidjobs-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	searchURL = "https://www.devex.com/jobs/search"

	defaultOrg      = "Development Organization"
	defaultLocation = "Global"
)

var (
	cardClass = regexp.MustCompile(`job-item|job-card`)

	// "Program Officer at UNDP" or "Program Officer - UNDP"
	orgPatterns = []*regexp.Regexp{
		regexp.MustCompile(`at\s+([A-Z][a-zA-Z\s&]+)`),
		regexp.MustCompile(`-\s*([A-Z][a-zA-Z\s&]+)$`),
	}
)

type Config struct {
	Timeout time.Duration
}

// Scraper pulls listings from the Devex job search page. Devex gates its API
// behind a login, so this adapter is HTML-only; the search page shows only
// currently open, recently posted jobs, so every row is marked recent.
type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
	log     *slog.Logger
}

func New(cfg Config, limiter *util.HostLimiter, log *slog.Logger) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		log:     log,
	}
}

func (s *Scraper) Name() domain.Source { return domain.SourceDevex }

func (s *Scraper) Fetch(ctx context.Context, term string, limit int) ([]domain.JobPosting, error) {
	q := url.Values{}
	q.Set("filter[keywords]", term)
	rawURL := searchURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "AidJobs/1.0 (+local)")

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, rawURL); err != nil {
			return nil, err
		}
	}
	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("devex get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("devex status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("devex parse html: %w", err)
	}

	jobs := parseSearchHTML(doc, term, limit, time.Now().UTC())
	if len(jobs) == 0 {
		s.log.Debug("devex returned no parseable listings", "term", term)
	}
	return jobs, nil
}

func parseSearchHTML(doc *goquery.Document, term string, limit int, now time.Time) []domain.JobPosting {
	cards := doc.Find("div").FilterFunction(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		return cardClass.MatchString(class)
	})
	if cards.Length() == 0 {
		// markup shifts regularly; fall back to any article element
		cards = doc.Find("article")
	}

	var jobs []domain.JobPosting
	cards.EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if len(jobs) >= limit {
			return false
		}

		title := util.CleanText(el.Find("h3").First().Text())
		if title == "" {
			title = util.CleanText(el.Find("h2").First().Text())
		}
		if title == "" {
			return true
		}

		href, _ := el.Find("a").First().Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return true
		}
		if !strings.HasPrefix(href, "http") {
			href = "https://www.devex.com" + href
		}

		jobs = append(jobs, domain.JobPosting{
			Title:        title,
			Organization: extractOrganization(title),
			Location:     defaultLocation,
			URL:          href,
			DatePosted:   "Recent",
			Source:       domain.SourceDevex,
			SearchTerm:   term,
			ScrapedAt:    now,
			IsRecent:     true,
		})
		return true
	})
	return jobs
}

func extractOrganization(title string) string {
	for _, p := range orgPatterns {
		if m := p.FindStringSubmatch(title); m != nil {
			if org := util.CleanText(m[1]); org != "" {
				return org
			}
		}
	}
	return defaultOrg
}
