package httpapi

import (
	"context"
	"log/slog"
	"sync/atomic"

	"aidjobs-engine/internal/config"
	"aidjobs-engine/internal/domain"
	"aidjobs-engine/internal/events"
	"aidjobs-engine/internal/store"
)

type Deps struct {
	Hub     *events.Hub
	Results *store.Results
	Log     *slog.Logger

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config
	Status *atomic.Value // stores httpapi.RunStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Scrape entrypoint (injected for testability)
	RunScrape func(ctx context.Context, cfg config.Config) ([]domain.JobPosting, error)
}
