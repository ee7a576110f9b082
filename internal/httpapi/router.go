package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, Recover(d.Log), AccessLog(d.Log), Cors)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true, "time": time.Now().Format(time.RFC3339)})
	})

	jh := JobsHandler{Results: d.Results}
	r.Get("/jobs", jh.List)
	r.Get("/jobs/summary", jh.Summary)

	sh := ScrapeHandler{Deps: d}
	r.Get("/scrape/status", sh.Status)
	r.Post("/scrape/run", sh.Run)

	ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg}
	r.Get("/config", ch.Get)
	r.Put("/config", ch.Put)
	r.Get("/config/path", ch.Path)

	eh := EventsHandler{Hub: d.Hub}
	r.Get("/events", eh.ServeSSE)

	xh := ExportHandler{Results: d.Results}
	r.Get("/export/csv", xh.CSV)
	r.Get("/export/json", xh.JSON)

	return r
}
