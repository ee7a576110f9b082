package httpapi

import (
	"context"
	"net/http"
	"time"

	"aidjobs-engine/internal/config"
	"aidjobs-engine/internal/events"
	"aidjobs-engine/internal/store"

	"github.com/google/uuid"
)

type ScrapeHandler struct {
	Deps
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.Deps.Status.Load().(RunStatus)
	writeJSON(w, st)
}

// Run kicks off one scrape with the current config. Only one run at a time;
// the run itself happens in a background goroutine and reports over the hub.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	if _, vr := config.NormalizeAndValidate(cfg); !vr.OK() {
		WriteJSON(w, http.StatusUnprocessableEntity, vr)
		return
	}

	st := h.Deps.Status.Load().(RunStatus)
	if st.Running {
		WriteError(w, r, http.StatusConflict, "already_running", "a scrape is already in progress")
		return
	}

	h.Deps.Status.Store(RunStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		LastOkAt:  st.LastOkAt,
		Running:   true,
	})

	runID := uuid.NewString()
	go func() {
		jobs, err := h.RunScrape(context.Background(), cfg)

		now := time.Now().Format(time.RFC3339)
		next := h.Deps.Status.Load().(RunStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastUnique = len(jobs)
		if err != nil {
			next.LastError = err.Error()
			h.Log.Error("scrape run failed", "run_id", runID, "err", err)
		} else {
			next.LastError = ""
			next.LastOkAt = now
			h.Results.Set(store.Snapshot{
				RunID:      runID,
				FinishedAt: time.Now().UTC(),
				Postings:   jobs,
			})
			h.Hub.Publish(events.MakeEvent(runID, "results_ready", 1, map[string]any{"unique": len(jobs)}))
		}
		h.Deps.Status.Store(next)
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "run_id": runID})
}
