package recorder

import (
	"time"

	"MooMetrics/internal/aggregate"
)

// FetchEvent records one refresh of an upstream feed.
type FetchEvent struct {
	Source   string // "news", "videos" or "history"
	Status   string // "ready" or "error"
	Items    int
	Duration time.Duration
	Error    string
}

// DigestEvent records one digest delivery attempt.
type DigestEvent struct {
	Day       string
	Coins     int
	Delivered bool
	Error     string
}

// Recorder persists derived history for later analysis.
type Recorder interface {
	RecordDaily(aggs []aggregate.DailyCoinAggregate) error
	RecordFetch(evt *FetchEvent) error
	RecordDigest(evt *DigestEvent) error
	Close() error
}
