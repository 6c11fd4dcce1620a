package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"MooMetrics/internal/metrics"
	"MooMetrics/internal/model"
)

// HTTPFetcher implements Fetcher against the news and video backends.
type HTTPFetcher struct {
	NewsBaseURL  string
	VideoBaseURL string
	Client       *http.Client

	limiter  *rate.Limiter
	validate *validator.Validate
}

// NewHTTPFetcher creates a fetcher with optional proxy support. perMinute
// caps outgoing requests across all endpoints; zero or less disables the cap.
func NewHTTPFetcher(newsBaseURL, videoBaseURL, proxyURL string, timeout time.Duration, perMinute int) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &HTTPFetcher{
		NewsBaseURL:  strings.TrimRight(newsBaseURL, "/"),
		VideoBaseURL: strings.TrimRight(videoBaseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter:  rate.NewLimiter(limit, 3),
		validate: validator.New(),
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// FetchNews loads GET /crypto/summary.
func (f *HTTPFetcher) FetchNews(ctx context.Context) ([]model.Article, error) {
	var resp newsResponse
	if err := f.getJSON(ctx, SourceNews, f.NewsBaseURL+"/crypto/summary", &resp); err != nil {
		return nil, err
	}
	if !strings.EqualFold(resp.Status, "success") {
		return nil, networkErr(SourceNews, fmt.Errorf("upstream status %q", resp.Status))
	}
	articles := make([]model.Article, 0, len(resp.Data))
	for i, item := range resp.Data {
		a, err := item.toArticle()
		if err != nil {
			return nil, malformedErr(SourceNews, fmt.Errorf("item %d: %w", i, err))
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// FetchVideos loads GET /youtube/get.
func (f *HTTPFetcher) FetchVideos(ctx context.Context) ([]model.Video, error) {
	var resp videoResponse
	if err := f.getJSON(ctx, SourceVideos, f.VideoBaseURL+"/youtube/get", &resp); err != nil {
		return nil, err
	}
	videos := make([]model.Video, 0, len(resp.Data.Videos))
	for i, item := range resp.Data.Videos {
		v, err := item.toVideo()
		if err != nil {
			return nil, malformedErr(SourceVideos, fmt.Errorf("video %d: %w", i, err))
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// FetchCoinHistory loads GET /crypto/{coin}.
func (f *HTTPFetcher) FetchCoinHistory(ctx context.Context, coin string) (model.CoinHistory, error) {
	symbol := strings.ToUpper(strings.TrimSpace(coin))
	if symbol == "" {
		return model.CoinHistory{}, fmt.Errorf("fetch coin history: empty coin")
	}
	var resp historyResponse
	endpoint := fmt.Sprintf("%s/crypto/%s", f.NewsBaseURL, url.PathEscape(symbol))
	if err := f.getJSON(ctx, SourceHistory, endpoint, &resp); err != nil {
		return model.CoinHistory{}, err
	}
	days := make(map[string]map[string]int, len(resp.Data.Data))
	for date, d := range resp.Data.Data {
		days[date] = d.MarketImpact
	}
	return model.CoinHistory{Coin: symbol, Days: days}, nil
}

func (f *HTTPFetcher) getJSON(ctx context.Context, source, endpoint string, out interface{}) (err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveFetch(source, fetchStatus(err), started)
	}()

	if err := f.limiter.Wait(ctx); err != nil {
		return networkErr(source, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return networkErr(source, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return networkErr(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return networkErr(source, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return malformedErr(source, fmt.Errorf("decode: %w", err))
	}
	if err := f.validate.Struct(out); err != nil {
		return malformedErr(source, err)
	}
	return nil
}

func fetchStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "network"
	}
}
