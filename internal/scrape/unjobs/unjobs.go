package unjobs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aidjobs-engine/internal/domain"
	"aidjobs-engine/internal/recency"
	"aidjobs-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	searchURL = "https://unjobs.org/search/"

	defaultOrg      = "UN Agency"
	defaultLocation = "Multiple Duty Stations"
)

type Config struct {
	Timeout time.Duration
}

// Scraper pulls vacancies from the UNjobs search page. The site has no public
// API, so this adapter is HTML-only.
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

func (s *Scraper) Name() domain.Source { return domain.SourceUNJobs }

func (s *Scraper) Fetch(ctx context.Context, term string, limit int) ([]domain.JobPosting, error) {
	rawURL := searchURL + url.PathEscape(term)

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
		return nil, fmt.Errorf("unjobs get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("unjobs status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("unjobs parse html: %w", err)
	}

	jobs := parseSearchHTML(doc, term, limit, time.Now().UTC())
	if len(jobs) == 0 {
		s.log.Debug("unjobs returned no parseable listings", "term", term)
	}
	return jobs, nil
}

func parseSearchHTML(doc *goquery.Document, term string, limit int, now time.Time) []domain.JobPosting {
	var jobs []domain.JobPosting
	doc.Find("div.job, .job-item").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if len(jobs) >= limit {
			return false
		}

		title := util.CleanText(el.Find("h2, h3").First().Text())
		if title == "" {
			// required field; skip the item, keep the batch
			return true
		}

		href, _ := el.Find("a").First().Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return true
		}
		if strings.HasPrefix(href, "/") {
			href = "https://unjobs.org" + href
		}

		org := util.CleanText(el.Find(".org, .organization").First().Text())
		if org == "" {
			org = defaultOrg
		}
		loc := util.NormalizeLocation(el.Find(".duty, .location").First().Text())
		if loc == "" {
			loc = defaultLocation
		}

		// UNjobs lists only open vacancies and shows relative ages like
		// "2 hours ago" when available; fall back to the site's convention.
		datePosted := util.CleanText(el.Find("time, .upd, .timeago").First().Text())
		if datePosted == "" {
			datePosted = "Recent"
		}

		jobs = append(jobs, domain.JobPosting{
			Title:        title,
			Organization: org,
			Location:     loc,
			URL:          href,
			DatePosted:   datePosted,
			Source:       domain.SourceUNJobs,
			SearchTerm:   term,
			ScrapedAt:    now,
			IsRecent:     recency.IsRecent(datePosted, now),
		})
		return true
	})
	return jobs
}
