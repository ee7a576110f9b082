package events

import (
	"encoding/json"
	"time"
)

// Sink receives serialized event envelopes. The SSE hub implements it; tests
// substitute a recording sink. Core code reports progress and failures through
// this interface instead of a package-level logger.
type Sink interface {
	Publish(evt string)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Publish(string) {}

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Payloads emitted during a scrape run.
type ScrapeProgress struct {
	TermIndex  int    `json:"term_index"`
	TotalTerms int    `json:"total_terms"`
	Message    string `json:"message"`
}

type ScrapeError struct {
	Site    string `json:"site"`
	Term    string `json:"term"`
	Message string `json:"message"`
}

type JobFound struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

type ScrapeDone struct {
	Unique   int `json:"unique"`
	TotalRaw int `json:"total_raw"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
