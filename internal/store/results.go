// Package store holds the latest completed run in memory. Runs are stateless
// by design; nothing here survives a restart.
package store

import (
	"sync"
	"time"

	"aidjobs-engine/internal/domain"
)

type Snapshot struct {
	RunID      string              `json:"run_id"`
	FinishedAt time.Time           `json:"finished_at"`
	Postings   []domain.JobPosting `json:"postings"`
}

// Results is a mutex-guarded holder for the most recent snapshot.
type Results struct {
	mu   sync.RWMutex
	snap Snapshot
	set  bool
}

func NewResults() *Results { return &Results{} }

func (r *Results) Set(snap Snapshot) {
	r.mu.Lock()
	r.snap = snap
	r.set = true
	r.mu.Unlock()
}

// Get returns a copy of the latest snapshot; ok is false before the first run
// completes. The postings slice is copied so callers can filter freely.
func (r *Results) Get() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.set {
		return Snapshot{}, false
	}
	out := r.snap
	out.Postings = append([]domain.JobPosting(nil), r.snap.Postings...)
	return out, true
}

// FilterOpts narrows a presentation view without touching the snapshot.
type FilterOpts struct {
	RecentOnly   bool
	RelevantOnly bool
	MinScore     float64
}

func Filter(postings []domain.JobPosting, opts FilterOpts) []domain.JobPosting {
	out := make([]domain.JobPosting, 0, len(postings))
	for _, p := range postings {
		if opts.RecentOnly && !p.IsRecent {
			continue
		}
		if opts.RelevantOnly && !p.IsRelevant {
			continue
		}
		if p.RelevanceScore < opts.MinScore {
			continue
		}
		out = append(out, p)
	}
	return out
}
