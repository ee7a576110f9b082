package domain

import "time"

// Source identifies which adapter produced a posting.
type Source string

const (
	SourceReliefWeb Source = "reliefweb"
	SourceUNJobs    Source = "unjobs"
	SourceDevex     Source = "devex"
)

// KnownSources lists every source the engine can scrape, in display order.
var KnownSources = []Source{SourceReliefWeb, SourceUNJobs, SourceDevex}

func ParseSource(s string) (Source, bool) {
	for _, k := range KnownSources {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// JobPosting is the normalized record every adapter emits. URL is the
// deduplication key and must be unique within a finished run.
type JobPosting struct {
	Title          string    `json:"title"`
	Organization   string    `json:"organization"`
	Location       string    `json:"location"`
	URL            string    `json:"url"`
	DatePosted     string    `json:"date_posted"`
	Source         Source    `json:"source"`
	SearchTerm     string    `json:"search_term"`
	ScrapedAt      time.Time `json:"scraped_at"`
	IsRecent       bool      `json:"is_recent"`
	RelevanceScore float64   `json:"relevance_score"`
	IsRelevant     bool      `json:"is_relevant"`
}
