package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aidjobs-engine/internal/domain"
	"aidjobs-engine/internal/events"
	"aidjobs-engine/internal/rank"
	"aidjobs-engine/internal/scrape/types"
	"aidjobs-engine/internal/scrape/util"

	"github.com/google/uuid"
)

// Params describes one scrape run.
type Params struct {
	Terms        []string
	Sites        []domain.Source
	LimitPerCall int
	Threshold    float64

	// Politeness delays. SiteDelay separates site calls within a term,
	// TermDelay separates term iterations. Zero means no extra wait (the
	// per-host rate limiter still paces individual HTTP calls).
	SiteDelay time.Duration
	TermDelay time.Duration
}

// Aggregator drives the adapters across the cross-product of search terms and
// sites, one fetch at a time, scores and tags every posting, and dedupes the
// merged batch by canonical URL (first occurrence wins). A failed (term, site)
// pair is reported to the sink and skipped; the run always completes.
type Aggregator struct {
	adapters map[domain.Source]types.Adapter
	scorer   rank.Scorer
	sink     events.Sink
	log      *slog.Logger
}

func NewAggregator(adapters []types.Adapter, scorer rank.Scorer, sink events.Sink, log *slog.Logger) *Aggregator {
	m := make(map[domain.Source]types.Adapter, len(adapters))
	for _, ad := range adapters {
		m[ad.Name()] = ad
	}
	if sink == nil {
		sink = events.NopSink{}
	}
	return &Aggregator{adapters: m, scorer: scorer, sink: sink, log: log}
}

func (a *Aggregator) Run(ctx context.Context, p Params) ([]domain.JobPosting, error) {
	if len(p.Terms) == 0 {
		return nil, errors.New("no search terms selected")
	}
	if len(p.Sites) == 0 {
		return nil, errors.New("no sites selected")
	}
	if p.LimitPerCall <= 0 {
		return nil, fmt.Errorf("limit per call must be positive, got %d", p.LimitPerCall)
	}
	for _, site := range p.Sites {
		if _, ok := a.adapters[site]; !ok {
			return nil, fmt.Errorf("no adapter registered for site %q", site)
		}
	}

	runID := uuid.NewString()
	var all []domain.JobPosting

	for ti, term := range p.Terms {
		a.sink.Publish(events.MakeEvent(runID, "scrape_progress", 1, events.ScrapeProgress{
			TermIndex:  ti,
			TotalTerms: len(p.Terms),
			Message:    fmt.Sprintf("Searching for %q...", term),
		}))

		found := 0
		for si, site := range p.Sites {
			if err := ctx.Err(); err != nil {
				return dedupeByURL(all), err
			}

			jobs, err := a.adapters[site].Fetch(ctx, term, p.LimitPerCall)
			if err != nil {
				a.log.Warn("fetch failed", "site", site, "term", term, "err", err)
				a.sink.Publish(events.MakeEvent(runID, "scrape_error", 1, events.ScrapeError{
					Site:    string(site),
					Term:    term,
					Message: err.Error(),
				}))
			} else {
				for i := range jobs {
					jobs[i].RelevanceScore = a.scorer.Score(jobs[i])
					jobs[i].IsRelevant = rank.IsRelevant(jobs[i].RelevanceScore, p.Threshold)
					a.sink.Publish(events.MakeEvent(runID, "job_found", 1, events.JobFound{
						Title:  jobs[i].Title,
						Source: string(jobs[i].Source),
						URL:    jobs[i].URL,
					}))
				}
				all = append(all, jobs...)
				found += len(jobs)
			}

			if si < len(p.Sites)-1 {
				if err := sleepCtx(ctx, p.SiteDelay); err != nil {
					return dedupeByURL(all), err
				}
			}
		}

		a.sink.Publish(events.MakeEvent(runID, "scrape_progress", 1, events.ScrapeProgress{
			TermIndex:  ti + 1,
			TotalTerms: len(p.Terms),
			Message:    fmt.Sprintf("Found %d jobs for %q", found, term),
		}))

		if ti < len(p.Terms)-1 {
			if err := sleepCtx(ctx, p.TermDelay); err != nil {
				return dedupeByURL(all), err
			}
		}
	}

	unique := dedupeByURL(all)
	a.sink.Publish(events.MakeEvent(runID, "scrape_done", 1, events.ScrapeDone{
		Unique:   len(unique),
		TotalRaw: len(all),
	}))
	a.log.Info("scrape complete", "unique", len(unique), "raw", len(all))
	return unique, nil
}

// dedupeByURL keeps the first posting seen for each canonicalized URL,
// preserving append order. Postings with an empty URL are dropped outright;
// the URL is the record's identity.
func dedupeByURL(in []domain.JobPosting) []domain.JobPosting {
	seen := make(map[string]bool, len(in))
	out := make([]domain.JobPosting, 0, len(in))
	for _, p := range in {
		key := util.CanonicalURL(p.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
