package collector

import (
	"context"

	"MooMetrics/internal/model"
)

// Source names used for logging, metrics and single-flight keys.
const (
	SourceNews    = "news"
	SourceVideos  = "videos"
	SourceHistory = "history"
)

// Fetcher defines the interface for fetching the upstream feeds.
type Fetcher interface {
	FetchNews(ctx context.Context) ([]model.Article, error)
	FetchVideos(ctx context.Context) ([]model.Video, error)
	FetchCoinHistory(ctx context.Context, coin string) (model.CoinHistory, error)
	Name() string
}
