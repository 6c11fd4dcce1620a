package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/collector"
	"MooMetrics/internal/impact"
	"MooMetrics/internal/model"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, f *collector.MockFetcher) (*Server, *collector.Collector) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c := collector.NewCollector(f, nil)
	s := New(c, Options{
		Coins:      model.DefaultCoins,
		Roster:     model.DefaultChannels,
		SeedRoster: true,
		Location:   time.UTC,
	}, nil)
	s.now = func() time.Time { return fixedNow }
	return s, c
}

func do(t *testing.T, s *Server, method, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.Handler().ServeHTTP(w, req)

	var body map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &body)
	}
	return w, body
}

func fixture() *collector.MockFetcher {
	return &collector.MockFetcher{
		News: []model.Article{
			{ID: "a", Title: "ETF approved", Source: "Wire", PublishedAt: fixedNow.Add(-time.Hour),
				CoinAnalysis: map[string]string{"BTC": "Strong_Increase"}},
			{ID: "b", Title: "Old", Source: "Wire", PublishedAt: fixedNow.AddDate(0, 0, -3),
				CoinAnalysis: map[string]string{"ETH": "Slight Decrease"}},
		},
		Videos: []model.Video{
			{ID: 5, ChannelName: "Coin Bureau", PublishedAt: fixedNow.Add(-2 * time.Hour),
				Analyses: []model.Analysis{{Coin: "BTC", Indicator: "Bullish"}}},
		},
		Histories: map[string]model.CoinHistory{
			"BTC": {Coin: "BTC", Days: map[string]map[string]int{"2024-05-01": {"Slight_Decrease": 2}}},
		},
	}
}

func TestHealthAndLegend(t *testing.T) {
	s, _ := newTestServer(t, fixture())

	w, body := do(t, s, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "loading", body["news"])

	w, body = do(t, s, http.MethodGet, "/api/legend")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["entries"], 7)
}

func TestNewsEndpoint(t *testing.T) {
	s, c := newTestServer(t, fixture())
	c.Refresh(context.Background())

	t.Run("window", func(t *testing.T) {
		w, body := do(t, s, http.MethodGet, "/api/news?window=1d&expanded=a")
		require.Equal(t, http.StatusOK, w.Code)
		items := body["items"].([]interface{})
		require.Len(t, items, 1)
		item := items[0].(map[string]interface{})
		assert.Equal(t, "a", item["id"])
		assert.Equal(t, true, item["expanded"])
		assert.Equal(t, "2024-05-10", body["latest_day"])
	})

	t.Run("search", func(t *testing.T) {
		_, body := do(t, s, http.MethodGet, "/api/news?q=old")
		assert.Len(t, body["items"], 1)
	})

	t.Run("bad window", func(t *testing.T) {
		w, body := do(t, s, http.MethodGet, "/api/news?window=fortnight")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errCodeBadRequest, body["error_code"])
	})
}

func TestVideosEndpoint(t *testing.T) {
	s, c := newTestServer(t, fixture())
	c.Refresh(context.Background())

	w, body := do(t, s, http.MethodGet, "/api/videos?video=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-05-10", body["date"])
	assert.Equal(t, "Coin Bureau", body["channel"])
	assert.Len(t, body["channels"], len(model.DefaultChannels))
	assert.NotNil(t, body["selected"])

	w, _ = do(t, s, http.MethodGet, "/api/videos?date=10-05-2024")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, s, http.MethodGet, "/api/videos?video=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCoinHistoryEndpoint(t *testing.T) {
	f := fixture()
	s, _ := newTestServer(t, f)

	w, body := do(t, s, http.MethodGet, "/api/coins/btc/history")
	require.Equal(t, http.StatusOK, w.Code)
	points := body["points"].([]interface{})
	require.Len(t, points, 1)
	assert.Equal(t, "Neutral", points[0].(map[string]interface{})["sentiment"])

	w, _ = do(t, s, http.MethodGet, "/api/coins/DOGE/history")
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.HistoryErr = &collector.FetchError{Source: collector.SourceHistory, Kind: collector.ErrMalformed, Err: errors.New("bad")}
	w, body = do(t, s, http.MethodGet, "/api/coins/ETH/history")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, errCodeMalformed, body["error_code"])
}

func TestRefreshEndpoint(t *testing.T) {
	f := fixture()
	f.VideosErr = &collector.FetchError{Source: collector.SourceVideos, Kind: collector.ErrNetwork, Err: errors.New("down")}
	s, _ := newTestServer(t, f)

	w, body := do(t, s, http.MethodPost, "/api/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", body["news"])
	assert.Equal(t, "error", body["videos"])

	_, body = do(t, s, http.MethodGet, "/api/videos")
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["error"], "down")
}

type stubStore struct {
	coin  string
	limit int
	rows  []aggregate.DailyCoinAggregate
	err   error
}

func (st *stubStore) DailyFor(coin string, limit int) ([]aggregate.DailyCoinAggregate, error) {
	st.coin, st.limit = coin, limit
	return st.rows, st.err
}

func TestCoinDailyEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &stubStore{rows: []aggregate.DailyCoinAggregate{
		{Day: "2024-05-09", Coin: "BTC", Observations: 2, AverageScore: 2.5, Sentiment: impact.Bullish},
	}}
	s := New(collector.NewCollector(fixture(), nil), Options{Coins: model.DefaultCoins, Store: store}, nil)

	w, body := do(t, s, http.MethodGet, "/api/coins/btc/daily?days=7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BTC", store.coin)
	assert.Equal(t, 7, store.limit)
	days := body["days"].([]interface{})
	require.Len(t, days, 1)
	assert.Equal(t, "Bullish", days[0].(map[string]interface{})["sentiment"])

	store.rows = nil
	w, body = do(t, s, http.MethodGet, "/api/coins/ETH/daily")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultStoredDays, store.limit)
	assert.Empty(t, body["days"])

	w, _ = do(t, s, http.MethodGet, "/api/coins/ETH/daily?days=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, s, http.MethodGet, "/api/coins/DOGE/daily")
	assert.Equal(t, http.StatusNotFound, w.Code)

	store.err = errors.New("disk I/O error")
	w, body = do(t, s, http.MethodGet, "/api/coins/BTC/daily")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errCodeInternal, body["error_code"])

	s = New(collector.NewCollector(fixture(), nil), Options{Coins: model.DefaultCoins}, nil)
	w, _ = do(t, s, http.MethodGet, "/api/coins/BTC/daily")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type stubRefresher struct {
	calls int
	snap  collector.Snapshot
}

func (r *stubRefresher) RefreshNow() collector.Snapshot {
	r.calls++
	return r.snap
}

func TestRefreshEndpoint_UsesRefresher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := collector.NewCollector(fixture(), nil)
	r := &stubRefresher{snap: collector.Snapshot{
		News:   collector.Feed[model.Article]{Status: collector.StatusReady},
		Videos: collector.Feed[model.Video]{Status: collector.StatusError},
	}}
	s := New(c, Options{Coins: model.DefaultCoins, Location: time.UTC, Refresher: r}, nil)

	w, body := do(t, s, http.MethodPost, "/api/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, "ready", body["news"])
	assert.Equal(t, "error", body["videos"])
	assert.Equal(t, collector.StatusLoading, c.Snapshot().News.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, fixture())
	w, _ := do(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}
