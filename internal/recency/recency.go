package recency

import (
	"strings"
	"time"
)

// Phrases that job boards use for listings posted within roughly the last day.
var recentPhrases = []string{
	"hours ago",
	"hour ago",
	"today",
	"just now",
	"1 day ago",
	"yesterday",
}

// IsRecent reports whether a free-text "posted" string indicates the listing
// went up within about the last 24 hours. It is a phrase heuristic, not a date
// parse: strings that don't match a known phrase or the current/previous
// calendar date (as "02 Jan 2006") are treated as not recent.
func IsRecent(dateText string, now time.Time) bool {
	dateText = strings.ToLower(strings.TrimSpace(dateText))
	if dateText == "" {
		return false
	}

	for _, p := range recentPhrases {
		if strings.Contains(dateText, p) {
			return true
		}
	}

	for _, d := range []time.Time{now, now.AddDate(0, 0, -1)} {
		if strings.Contains(dateText, strings.ToLower(d.Format("02 Jan 2006"))) {
			return true
		}
	}
	return false
}
