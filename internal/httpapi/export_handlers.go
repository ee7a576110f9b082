package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"aidjobs-engine/internal/export"
	"aidjobs-engine/internal/store"
)

const exportPrefix = "public_health_jobs"

type ExportHandler struct {
	Results *store.Results
}

// CSV and JSON serve the latest snapshot as a download. An empty snapshot
// degrades to an empty export, not an error.

func (h ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	snap, _ := h.Results.Get()
	body, err := export.ToCSV(snap.Postings)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	serveDownload(w, body, "text/csv", export.Filename(exportPrefix, "csv", time.Now()))
}

func (h ExportHandler) JSON(w http.ResponseWriter, r *http.Request) {
	snap, _ := h.Results.Get()
	body, err := export.ToJSON(snap.Postings)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	serveDownload(w, body, "application/json", export.Filename(exportPrefix, "json", time.Now()))
}

func serveDownload(w http.ResponseWriter, body, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(body))
}
