package httpapi

import (
	"net/http"
	"sort"
	"strconv"

	"aidjobs-engine/internal/store"
)

type JobsHandler struct {
	Results *store.Results
}

// List serves the latest run's postings. Query params narrow the view only;
// the stored snapshot keeps every posting.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.Results.Get()
	if !ok {
		writeJSON(w, map[string]any{"run_id": "", "postings": []any{}})
		return
	}

	q := r.URL.Query()
	opts := store.FilterOpts{
		RecentOnly:   q.Get("recent_only") == "true",
		RelevantOnly: q.Get("relevant_only") == "true",
	}
	if raw := q.Get("min_score"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_min_score", "min_score must be a number")
			return
		}
		opts.MinScore = min
	}

	writeJSON(w, map[string]any{
		"run_id":      snap.RunID,
		"finished_at": snap.FinishedAt,
		"postings":    store.Filter(snap.Postings, opts),
	})
}

// Summary reports the headline counts the UI shows above the results table.
func (h JobsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, _ := h.Results.Get()

	recent, high := 0, 0
	sources := map[string]bool{}
	for _, p := range snap.Postings {
		if p.IsRecent {
			recent++
		}
		if p.RelevanceScore > 0.7 {
			high++
		}
		sources[string(p.Source)] = true
	}

	names := make([]string, 0, len(sources))
	for s := range sources {
		names = append(names, s)
	}
	sort.Strings(names)

	writeJSON(w, map[string]any{
		"total":        len(snap.Postings),
		"recent":       recent,
		"high_matches": high,
		"sources":      names,
	})
}
