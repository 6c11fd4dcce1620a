package recorder

import "MooMetrics/internal/aggregate"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordDaily(_ []aggregate.DailyCoinAggregate) error { return nil }
func (n *NoopRecorder) RecordFetch(_ *FetchEvent) error                    { return nil }
func (n *NoopRecorder) RecordDigest(_ *DigestEvent) error                  { return nil }
func (n *NoopRecorder) Close() error                                       { return nil }
