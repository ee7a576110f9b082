package reliefweb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aidjobs-engine/internal/domain"
	"aidjobs-engine/internal/recency"
	"aidjobs-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	defaultAppName = "publichealth"

	apiURL    = "https://api.reliefweb.int/v1/jobs"
	rssURL    = "https://reliefweb.int/jobs/rss.xml"
	searchURL = "https://reliefweb.int/jobs"

	defaultOrg      = "Unknown Organization"
	defaultLocation = "Multiple Locations"
)

type Config struct {
	AppName string // ReliefWeb asks API consumers to identify themselves
	Timeout time.Duration
}

// Scraper pulls job listings from ReliefWeb. The structured API is tried
// first; on failure it falls back to the jobs RSS feed, then to scraping the
// search results page.
type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
	log     *slog.Logger
}

func New(cfg Config, limiter *util.HostLimiter, log *slog.Logger) *Scraper {
	if cfg.AppName == "" {
		cfg.AppName = defaultAppName
	}
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

func (s *Scraper) Name() domain.Source { return domain.SourceReliefWeb }

func (s *Scraper) Fetch(ctx context.Context, term string, limit int) ([]domain.JobPosting, error) {
	jobs, apiErr := s.fetchAPI(ctx, term, limit)
	if apiErr == nil {
		return jobs, nil
	}
	s.log.Warn("reliefweb api failed, trying rss", "term", term, "err", apiErr)

	jobs, rssErr := s.fetchRSS(ctx, term, limit)
	if rssErr == nil {
		return jobs, nil
	}
	s.log.Warn("reliefweb rss failed, trying html", "term", term, "err", rssErr)

	jobs, htmlErr := s.fetchHTML(ctx, term, limit)
	if htmlErr != nil {
		return nil, fmt.Errorf("reliefweb: api (%v), rss (%v), html: %w", apiErr, rssErr, htmlErr)
	}
	return jobs, nil
}

func (s *Scraper) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
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
		return nil, err
	}
	if res.StatusCode >= 400 {
		res.Body.Close()
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}
	return res.Body, nil
}

// --- structured API tier

type apiResponse struct {
	Data []struct {
		ID     json.Number `json:"id"`
		Fields struct {
			Title  string `json:"title"`
			Source []struct {
				Name string `json:"name"`
			} `json:"source"`
			Country []struct {
				Name string `json:"name"`
			} `json:"country"`
			Date struct {
				Created string `json:"created"`
			} `json:"date"`
		} `json:"fields"`
	} `json:"data"`
}

func (s *Scraper) fetchAPI(ctx context.Context, term string, limit int) ([]domain.JobPosting, error) {
	q := url.Values{}
	q.Set("appname", s.cfg.AppName)
	q.Set("query[value]", term)
	q.Set("limit", fmt.Sprint(limit))

	body, err := s.get(ctx, apiURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("reliefweb api get: %w", err)
	}
	defer body.Close()

	return parseAPI(body, term, limit, time.Now().UTC())
}

func parseAPI(r io.Reader, term string, limit int, now time.Time) ([]domain.JobPosting, error) {
	var resp apiResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("reliefweb api decode: %w", err)
	}

	var jobs []domain.JobPosting
	for _, item := range resp.Data {
		if len(jobs) >= limit {
			break
		}
		title := util.CleanText(item.Fields.Title)
		if title == "" || item.ID.String() == "" {
			continue
		}

		org := defaultOrg
		if len(item.Fields.Source) > 0 && util.CleanText(item.Fields.Source[0].Name) != "" {
			org = util.CleanText(item.Fields.Source[0].Name)
		}

		var countries []string
		for _, c := range item.Fields.Country {
			if n := util.CleanText(c.Name); n != "" {
				countries = append(countries, n)
			}
		}
		loc := defaultLocation
		if len(countries) > 0 {
			loc = util.NormalizeLocation(strings.Join(countries, ", "))
		}

		datePosted := item.Fields.Date.Created
		if datePosted == "" {
			datePosted = "Unknown"
		}

		jobs = append(jobs, domain.JobPosting{
			Title:        title,
			Organization: org,
			Location:     loc,
			URL:          "https://reliefweb.int/job/" + item.ID.String(),
			DatePosted:   datePosted,
			Source:       domain.SourceReliefWeb,
			SearchTerm:   term,
			ScrapedAt:    now,
			IsRecent:     recency.IsRecent(datePosted, now),
		})
	}
	return jobs, nil
}

// --- RSS tier

func (s *Scraper) fetchRSS(ctx context.Context, term string, limit int) ([]domain.JobPosting, error) {
	q := url.Values{}
	q.Set("search", term)

	body, err := s.get(ctx, rssURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("reliefweb rss get: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("reliefweb rss parse: %w", err)
	}
	return postingsFromFeed(feed, term, limit, time.Now().UTC()), nil
}

func postingsFromFeed(feed *gofeed.Feed, term string, limit int, now time.Time) []domain.JobPosting {
	var jobs []domain.JobPosting
	for _, it := range feed.Items {
		if len(jobs) >= limit {
			break
		}
		title := util.CleanText(it.Title)
		link := strings.TrimSpace(it.Link)
		if title == "" || link == "" {
			continue
		}

		datePosted := util.CleanText(it.Published)
		if datePosted == "" && it.PublishedParsed != nil {
			datePosted = it.PublishedParsed.Format("02 Jan 2006")
		}
		if datePosted == "" {
			datePosted = "Unknown"
		}

		org := defaultOrg
		if it.Author != nil && util.CleanText(it.Author.Name) != "" {
			org = util.CleanText(it.Author.Name)
		}

		jobs = append(jobs, domain.JobPosting{
			Title:        title,
			Organization: org,
			Location:     defaultLocation,
			URL:          link,
			DatePosted:   datePosted,
			Source:       domain.SourceReliefWeb,
			SearchTerm:   term,
			ScrapedAt:    now,
			IsRecent:     recency.IsRecent(datePosted, now),
		})
	}
	return jobs
}

// --- HTML tier

func (s *Scraper) fetchHTML(ctx context.Context, term string, limit int) ([]domain.JobPosting, error) {
	q := url.Values{}
	q.Set("search", term)

	body, err := s.get(ctx, searchURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("reliefweb html get: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("reliefweb html parse: %w", err)
	}
	return parseSearchHTML(doc, term, limit, time.Now().UTC()), nil
}

func parseSearchHTML(doc *goquery.Document, term string, limit int, now time.Time) []domain.JobPosting {
	var jobs []domain.JobPosting
	doc.Find("article.rw-river-article--job").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if len(jobs) >= limit {
			return false
		}

		a := el.Find("h3 a").First()
		title := util.CleanText(a.Text())
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if title == "" || href == "" {
			return true
		}
		if strings.HasPrefix(href, "/") {
			href = "https://reliefweb.int" + href
		}

		org := util.CleanText(el.Find("dd").First().Text())
		if org == "" {
			org = defaultOrg
		}
		loc := util.NormalizeLocation(el.Find(".rw-river-article__country").First().Text())
		if loc == "" {
			loc = defaultLocation
		}
		datePosted := util.CleanText(el.Find("time").First().Text())
		if datePosted == "" {
			datePosted = "Unknown"
		}

		jobs = append(jobs, domain.JobPosting{
			Title:        title,
			Organization: org,
			Location:     loc,
			URL:          href,
			DatePosted:   datePosted,
			Source:       domain.SourceReliefWeb,
			SearchTerm:   term,
			ScrapedAt:    now,
			IsRecent:     recency.IsRecent(datePosted, now),
		})
		return true
	})
	return jobs
}
