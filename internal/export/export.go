// Package export renders a finished run as CSV or JSON text. Both transforms
// are pure; file naming and download mechanics belong to the caller.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"aidjobs-engine/internal/domain"
)

// Header is the CSV column order, one column per JobPosting field.
var Header = []string{
	"title", "organization", "location", "url", "date_posted",
	"source", "search_term", "scraped_at", "is_recent",
	"relevance_score", "is_relevant",
}

// ToCSV serializes postings with a header row and RFC 4180 quoting. An empty
// collection yields just the header.
func ToCSV(postings []domain.JobPosting) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return "", err
	}
	for _, p := range postings {
		rec := []string{
			p.Title,
			p.Organization,
			p.Location,
			p.URL,
			p.DatePosted,
			string(p.Source),
			p.SearchTerm,
			p.ScrapedAt.UTC().Format(time.RFC3339),
			strconv.FormatBool(p.IsRecent),
			strconv.FormatFloat(p.RelevanceScore, 'f', 2, 64),
			strconv.FormatBool(p.IsRelevant),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// FromCSV is the inverse of ToCSV, used for round-trip checks and for callers
// re-importing an earlier export.
func FromCSV(text string) ([]domain.JobPosting, error) {
	r := csv.NewReader(bytes.NewReader([]byte(text)))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows[0]) != len(Header) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(Header), len(rows[0]))
	}

	postings := make([]domain.JobPosting, 0, len(rows)-1)
	for i, row := range rows[1:] {
		scrapedAt, err := time.Parse(time.RFC3339, row[7])
		if err != nil {
			return nil, fmt.Errorf("row %d: scraped_at: %w", i+1, err)
		}
		isRecent, err := strconv.ParseBool(row[8])
		if err != nil {
			return nil, fmt.Errorf("row %d: is_recent: %w", i+1, err)
		}
		score, err := strconv.ParseFloat(row[9], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: relevance_score: %w", i+1, err)
		}
		isRelevant, err := strconv.ParseBool(row[10])
		if err != nil {
			return nil, fmt.Errorf("row %d: is_relevant: %w", i+1, err)
		}

		postings = append(postings, domain.JobPosting{
			Title:          row[0],
			Organization:   row[1],
			Location:       row[2],
			URL:            row[3],
			DatePosted:     row[4],
			Source:         domain.Source(row[5]),
			SearchTerm:     row[6],
			ScrapedAt:      scrapedAt,
			IsRecent:       isRecent,
			RelevanceScore: score,
			IsRelevant:     isRelevant,
		})
	}
	return postings, nil
}

// ToJSON serializes postings as a pretty-printed array with stable key order
// (struct field order). An empty or nil collection yields "[]".
func ToJSON(postings []domain.JobPosting) (string, error) {
	if postings == nil {
		postings = []domain.JobPosting{}
	}
	b, err := json.MarshalIndent(postings, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Filename builds the conventional download name: <prefix>_<YYYYMMDD_HHMM>.<ext>.
func Filename(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102_1504"), ext)
}
