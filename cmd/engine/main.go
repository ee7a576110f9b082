package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"aidjobs-engine/internal/config"
	"aidjobs-engine/internal/domain"
	"aidjobs-engine/internal/events"
	"aidjobs-engine/internal/httpapi"
	"aidjobs-engine/internal/logger"
	"aidjobs-engine/internal/scrape"
	"aidjobs-engine/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	log := logger.New("aidjobs-engine")

	dataDir := os.Getenv("AIDJOBS_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Error("create data dir", "err", err)
		os.Exit(1)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Error("config bootstrap failed", "err", err)
		os.Exit(1)
	}

	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, warn := range vr.Warnings {
			log.Warn("config", "warning", warn)
		}
		if !vr.OK() {
			// keep serving so the UI can fix the config over PUT /config
			log.Warn("config has errors; runs are blocked until fixed", "errors", vr.Errors)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Error("config load failed", "path", userCfgPath, "err", err)
		os.Exit(1)
	}
	cfgVal.Store(cfg)

	hub := events.NewHub()
	results := store.NewResults()

	var status atomic.Value
	status.Store(httpapi.RunStatus{})

	deps := httpapi.Deps{
		Hub:         hub,
		Results:     results,
		Log:         log,
		CfgVal:      &cfgVal,
		Status:      &status,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		RunScrape: func(ctx context.Context, cfg config.Config) ([]domain.JobPosting, error) {
			return scrape.RunOnce(ctx, cfg, hub, log)
		},
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("listen failed", "addr", addr, "err", err)
		os.Exit(1)
	}
	log.Info("engine listening", "addr", "http://"+addr, "config", userCfgPath)

	srv := &http.Server{
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("engine stopped")
}
