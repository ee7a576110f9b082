package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"aidjobs-engine/internal/domain"
	"aidjobs-engine/internal/events"
	"aidjobs-engine/internal/rank"
	"aidjobs-engine/internal/scrape/types"

	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	name domain.Source
	jobs map[string][]domain.JobPosting // term -> postings
	err  error
}

func (s stubAdapter) Name() domain.Source { return s.name }

func (s stubAdapter) Fetch(_ context.Context, term string, limit int) ([]domain.JobPosting, error) {
	if s.err != nil {
		return nil, s.err
	}
	jobs := s.jobs[term]
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingSink) Publish(evt string) {
	var e events.Event
	if err := json.Unmarshal([]byte(evt), &e); err != nil {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordingSink) byType(typ string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func posting(src domain.Source, url, title string) domain.JobPosting {
	return domain.JobPosting{
		Title:        title,
		Organization: "Unknown Organization",
		Location:     "Multiple Locations",
		URL:          url,
		DatePosted:   "Recent",
		Source:       src,
		ScrapedAt:    time.Now().UTC(),
	}
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunScoresAndTagsEveryPosting(t *testing.T) {
	ad := stubAdapter{
		name: domain.SourceReliefWeb,
		jobs: map[string][]domain.JobPosting{
			"monitoring": {
				posting(domain.SourceReliefWeb, "https://reliefweb.int/job/1", "Monitoring Officer"),
				posting(domain.SourceReliefWeb, "https://reliefweb.int/job/2", "Chief Accountant"),
			},
		},
	}
	scorer := rank.NewVocabularyScorer([]string{"monitoring", "health"}, rank.TitleOrganization)
	agg := NewAggregator([]types.Adapter{ad}, scorer, nil, testLogger())

	jobs, err := agg.Run(context.Background(), Params{
		Terms:        []string{"monitoring"},
		Sites:        []domain.Source{domain.SourceReliefWeb},
		LimitPerCall: 5,
		Threshold:    0.3,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	// tag-only: the low scorer stays in the batch
	require.Equal(t, 0.5, jobs[0].RelevanceScore)
	require.True(t, jobs[0].IsRelevant)
	require.Equal(t, 0.0, jobs[1].RelevanceScore)
	require.False(t, jobs[1].IsRelevant)
}

func TestRunDedupesFirstSeenWins(t *testing.T) {
	shared := "https://reliefweb.int/job/42"
	ad := stubAdapter{
		name: domain.SourceReliefWeb,
		jobs: map[string][]domain.JobPosting{
			"term a": {func() domain.JobPosting {
				p := posting(domain.SourceReliefWeb, shared, "First Copy")
				p.SearchTerm = "term a"
				return p
			}()},
			"term b": {func() domain.JobPosting {
				p := posting(domain.SourceReliefWeb, shared+"?utm_source=rss", "Second Copy")
				p.SearchTerm = "term b"
				return p
			}()},
		},
	}
	agg := NewAggregator([]types.Adapter{ad}, rank.NewVocabularyScorer(nil, rank.TitleOrganization), nil, testLogger())

	jobs, err := agg.Run(context.Background(), Params{
		Terms:        []string{"term a", "term b"},
		Sites:        []domain.Source{domain.SourceReliefWeb},
		LimitPerCall: 5,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, "First Copy", jobs[0].Title)
	require.Equal(t, "term a", jobs[0].SearchTerm)
}

func TestRunIsolatesAdapterFailures(t *testing.T) {
	broken := stubAdapter{name: domain.SourceUNJobs, err: errors.New("status 503")}
	healthy := stubAdapter{
		name: domain.SourceReliefWeb,
		jobs: map[string][]domain.JobPosting{
			"health": {posting(domain.SourceReliefWeb, "https://reliefweb.int/job/7", "Health Officer")},
		},
	}
	sink := &recordingSink{}
	agg := NewAggregator([]types.Adapter{broken, healthy}, rank.NewVocabularyScorer(nil, rank.TitleOrganization), sink, testLogger())

	jobs, err := agg.Run(context.Background(), Params{
		Terms:        []string{"health"},
		Sites:        []domain.Source{domain.SourceUNJobs, domain.SourceReliefWeb},
		LimitPerCall: 5,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	errEvents := sink.byType("scrape_error")
	require.Len(t, errEvents, 1)

	var payload events.ScrapeError
	require.NoError(t, json.Unmarshal(errEvents[0].Data, &payload))
	require.Equal(t, "unjobs", payload.Site)
	require.Equal(t, "health", payload.Term)
	require.Contains(t, payload.Message, "503")
}

func TestRunEmitsTerminalCount(t *testing.T) {
	ad := stubAdapter{
		name: domain.SourceDevex,
		jobs: map[string][]domain.JobPosting{
			"data": {
				posting(domain.SourceDevex, "https://www.devex.com/jobs/1", "Data Lead"),
				posting(domain.SourceDevex, "https://www.devex.com/jobs/1", "Data Lead"),
				posting(domain.SourceDevex, "https://www.devex.com/jobs/2", "Data Analyst"),
			},
		},
	}
	sink := &recordingSink{}
	agg := NewAggregator([]types.Adapter{ad}, rank.NewVocabularyScorer(nil, rank.TitleOrganization), sink, testLogger())

	jobs, err := agg.Run(context.Background(), Params{
		Terms:        []string{"data"},
		Sites:        []domain.Source{domain.SourceDevex},
		LimitPerCall: 5,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	// one job_found per raw posting, before dedup
	require.Len(t, sink.byType("job_found"), 3)

	done := sink.byType("scrape_done")
	require.Len(t, done, 1)
	var payload events.ScrapeDone
	require.NoError(t, json.Unmarshal(done[0].Data, &payload))
	require.Equal(t, 2, payload.Unique)
	require.Equal(t, 3, payload.TotalRaw)
}

func TestRunRejectsEmptyConfiguration(t *testing.T) {
	agg := NewAggregator(nil, rank.NewVocabularyScorer(nil, rank.TitleOrganization), nil, testLogger())

	_, err := agg.Run(context.Background(), Params{Sites: []domain.Source{domain.SourceDevex}, LimitPerCall: 5})
	require.ErrorContains(t, err, "no search terms")

	_, err = agg.Run(context.Background(), Params{Terms: []string{"x"}, LimitPerCall: 5})
	require.ErrorContains(t, err, "no sites")

	_, err = agg.Run(context.Background(), Params{Terms: []string{"x"}, Sites: []domain.Source{domain.SourceDevex}, LimitPerCall: 5})
	require.ErrorContains(t, err, "no adapter registered")
}

func TestRunStopsBetweenPairsOnCancel(t *testing.T) {
	ad := stubAdapter{
		name: domain.SourceReliefWeb,
		jobs: map[string][]domain.JobPosting{
			"a": {posting(domain.SourceReliefWeb, "https://reliefweb.int/job/1", "A")},
			"b": {posting(domain.SourceReliefWeb, "https://reliefweb.int/job/2", "B")},
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := NewAggregator([]types.Adapter{ad}, rank.NewVocabularyScorer(nil, rank.TitleOrganization), nil, testLogger())
	jobs, err := agg.Run(ctx, Params{
		Terms:        []string{"a", "b"},
		Sites:        []domain.Source{domain.SourceReliefWeb},
		LimitPerCall: 5,
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, jobs)
}

func TestDedupeDropsEmptyURL(t *testing.T) {
	in := []domain.JobPosting{
		posting(domain.SourceDevex, "", "No URL"),
		posting(domain.SourceDevex, "https://www.devex.com/jobs/9", "Kept"),
	}
	out := dedupeByURL(in)
	require.Len(t, out, 1)
	require.Equal(t, "Kept", out[0].Title)
}
