package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/impact"
	"MooMetrics/internal/logger"
	"MooMetrics/internal/metrics"
	"MooMetrics/internal/model"
)

const fetchTimeout = 60 * time.Second

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	News       []model.Article
	Videos     []model.Video
	Histories  map[string]model.CoinHistory
	NewsErr    error
	VideosErr  error
	HistoryErr error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchNews(_ context.Context) ([]model.Article, error) {
	if m.NewsErr != nil {
		return nil, m.NewsErr
	}
	return m.News, nil
}

func (m *MockFetcher) FetchVideos(_ context.Context) ([]model.Video, error) {
	if m.VideosErr != nil {
		return nil, m.VideosErr
	}
	return m.Videos, nil
}

func (m *MockFetcher) FetchCoinHistory(_ context.Context, coin string) (model.CoinHistory, error) {
	if m.HistoryErr != nil {
		return model.CoinHistory{}, m.HistoryErr
	}
	h, ok := m.Histories[aggregate.CoinKey(coin)]
	if !ok {
		return model.CoinHistory{Coin: aggregate.CoinKey(coin)}, nil
	}
	return h, nil
}

// Status is the load state of one feed.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Feed is one feed's latest result. A failed refresh clears Items.
type Feed[T any] struct {
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Err       error     `json:"-"`
	Items     []T       `json:"items"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (f Feed[T]) Ready() bool { return f.Status == StatusReady }

// Snapshot is what the dashboard renders from.
type Snapshot struct {
	News   Feed[model.Article] `json:"news"`
	Videos Feed[model.Video]   `json:"videos"`
}

// Collector fetches both feeds and keeps the latest snapshot.
type Collector struct {
	Fetcher Fetcher

	log   *logger.Logger
	group singleflight.Group
	now   func() time.Time

	mu   sync.RWMutex
	snap Snapshot
}

// NewCollector creates a Collector whose feeds start in the loading state.
func NewCollector(fetcher Fetcher, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Nop()
	}
	return &Collector{
		Fetcher: fetcher,
		log:     log.With("component", "collector", "fetcher", fetcher.Name()),
		now:     time.Now,
		snap: Snapshot{
			News:   Feed[model.Article]{Status: StatusLoading},
			Videos: Feed[model.Video]{Status: StatusLoading},
		},
	}
}

// Snapshot returns the latest state without fetching.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Refresh fetches both feeds concurrently and stores the result. Concurrent
// callers share one in-flight refresh. Each feed fails independently.
//
// The fetch outlives ctx: a caller that gives up gets the current snapshot
// back while the shared refresh completes for everyone else.
func (c *Collector) Refresh(ctx context.Context) Snapshot {
	ch := c.group.DoChan("refresh", func() (interface{}, error) {
		ctx, cancel := detach(ctx)
		defer cancel()

		var (
			wg     sync.WaitGroup
			news   Feed[model.Article]
			videos Feed[model.Video]
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			items, err := c.Fetcher.FetchNews(ctx)
			news = newFeed(c, SourceNews, items, err)
			if err == nil {
				c.countUnknown(items)
			}
		}()
		go func() {
			defer wg.Done()
			items, err := c.Fetcher.FetchVideos(ctx)
			videos = newFeed(c, SourceVideos, items, err)
		}()
		wg.Wait()

		snap := Snapshot{News: news, Videos: videos}
		c.mu.Lock()
		c.snap = snap
		c.mu.Unlock()
		return snap, nil
	})
	select {
	case res := <-ch:
		return res.Val.(Snapshot)
	case <-ctx.Done():
		return c.Snapshot()
	}
}

// detach keeps ctx values and drops its cancellation. Shared fetches are
// bounded by fetchTimeout instead.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
}

func newFeed[T any](c *Collector, source string, items []T, err error) Feed[T] {
	f := Feed[T]{FetchedAt: c.now()}
	if err != nil {
		c.log.Warnf("%s refresh failed: %v", source, err)
		f.Status, f.Err, f.Error = StatusError, err, err.Error()
		metrics.FeedItems.WithLabelValues(source).Set(0)
		return f
	}
	f.Status, f.Items = StatusReady, items
	metrics.FeedItems.WithLabelValues(source).Set(float64(len(items)))
	c.log.Debugf("%s refreshed: %d items", source, len(items))
	return f
}

func (c *Collector) countUnknown(articles []model.Article) {
	for _, a := range articles {
		for coin, phrase := range a.CoinAnalysis {
			if !impact.Known(phrase) {
				metrics.UnknownImpactPhrases.Inc()
				c.log.Debugf("unknown impact phrase %q for %s in %s", phrase, coin, a.URL)
			}
		}
	}
}

// CoinHistory fetches and normalizes one coin's per-day impact history.
// Concurrent requests for the same coin share one fetch.
func (c *Collector) CoinHistory(ctx context.Context, coin string) ([]aggregate.DailyImpact, error) {
	key := aggregate.CoinKey(coin)
	if key == "" {
		return nil, fmt.Errorf("coin history: empty coin")
	}
	ch := c.group.DoChan(SourceHistory+":"+key, func() (interface{}, error) {
		ctx, cancel := detach(ctx)
		defer cancel()
		h, err := c.Fetcher.FetchCoinHistory(ctx, key)
		if err != nil {
			return nil, err
		}
		return aggregate.History(h), nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			c.log.Warnf("history for %s failed: %v", key, res.Err)
			return nil, res.Err
		}
		return res.Val.([]aggregate.DailyImpact), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("coin history %s: %w", key, ctx.Err())
	}
}
