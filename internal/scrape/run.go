package scrape

import (
	"context"
	"log/slog"

	"aidjobs-engine/internal/config"
	"aidjobs-engine/internal/domain"
	"aidjobs-engine/internal/events"
	"aidjobs-engine/internal/rank"
	"aidjobs-engine/internal/scrape/devex"
	"aidjobs-engine/internal/scrape/reliefweb"
	"aidjobs-engine/internal/scrape/types"
	"aidjobs-engine/internal/scrape/unjobs"
	"aidjobs-engine/internal/scrape/util"
)

// RunOnce builds the adapter set from cfg and executes a full scrape. Adapters
// are cheap to construct, so each run gets a fresh set reflecting the config
// at the time the run started.
func RunOnce(ctx context.Context, cfg config.Config, sink events.Sink, log *slog.Logger) ([]domain.JobPosting, error) {
	limiter := util.NewHostLimiter(cfg.Scraping.RequestsPerSecond, 1)

	adapters := []types.Adapter{
		reliefweb.New(reliefweb.Config{Timeout: cfg.Timeout()}, limiter, log),
		unjobs.New(unjobs.Config{Timeout: cfg.Timeout()}, limiter, log),
		devex.New(devex.Config{Timeout: cfg.Timeout()}, limiter, log),
	}

	sites := make([]domain.Source, 0, len(cfg.Search.Sites))
	for _, raw := range cfg.Search.Sites {
		if s, ok := domain.ParseSource(raw); ok {
			sites = append(sites, s)
		}
	}

	scorer := rank.NewVocabularyScorer(cfg.Scoring.Keywords, rank.ScoreFields(cfg.Scoring.ScoreFields))
	agg := NewAggregator(adapters, scorer, sink, log)

	return agg.Run(ctx, Params{
		Terms:        cfg.Search.Terms,
		Sites:        sites,
		LimitPerCall: cfg.Search.MaxPerTerm,
		Threshold:    cfg.Scoring.Threshold,
		SiteDelay:    cfg.SiteDelay(),
		TermDelay:    cfg.TermDelay(),
	})
}
