package aggregate

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MooMetrics/internal/impact"
	"MooMetrics/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want Window
	}{
		{"", All},
		{"all", All},
		{"1d", Day1},
		{"24h", Day1},
		{"7D", Day7},
		{"30d", Day30},
		{"month", Day30},
	}
	for _, tt := range tests {
		w, err := ParseWindow(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, w, tt.in)
	}
	_, err := ParseWindow("90d")
	assert.Error(t, err)
	assert.Equal(t, "7d", Day7.String())
	assert.Equal(t, "all", All.String())
}

func TestInWindow_ElapsedTime(t *testing.T) {
	now := day("2024-01-10")
	assert.True(t, InWindow(day("2024-01-03"), now, Day7), "7.0 days elapsed is inside")
	assert.False(t, InWindow(day("2024-01-02"), now, Day7), "8.0 days elapsed is outside")
	assert.True(t, InWindow(day("1999-01-01"), now, All))
	assert.True(t, InWindow(now.Add(-24*time.Hour), now, Day1))
	assert.False(t, InWindow(now.Add(-24*time.Hour-time.Second), now, Day1))
	assert.True(t, InWindow(day("2023-12-11"), now, Day30))
	assert.False(t, InWindow(day("2023-12-10"), now, Day30))
}

func TestSameDay_DiffersFromDay1Window(t *testing.T) {
	// 23h earlier but across midnight: inside the 1-day window, not the same day.
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	prev := now.Add(-23 * time.Hour)
	assert.True(t, InWindow(prev, now, Day1))
	assert.False(t, SameDay(prev, now, time.UTC))

	// Same day is location dependent.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	a := time.Date(2024, 1, 10, 2, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC)
	assert.False(t, SameDay(a, b, time.UTC))
	assert.True(t, SameDay(a, b, ny))
}

func TestNormalize(t *testing.T) {
	got := Normalize(map[string]string{
		"btc": "strongly_increase",
		"Eth": "Slightly Decrease",
		"SOL": "wildly increase",
		"  ":  "stable",
	})
	assert.Equal(t, map[string]impact.Label{
		"BTC": impact.StrongIncrease,
		"ETH": impact.SlightDecrease,
		"SOL": impact.Unknown,
	}, got)
}

func TestAggregate_Example(t *testing.T) {
	articles := []model.Article{
		{ID: "1", PublishedAt: day("2024-01-01"), CoinAnalysis: map[string]string{"BTC": "strongly increase"}},
		{ID: "2", PublishedAt: day("2024-01-01"), CoinAnalysis: map[string]string{"BTC": "slightly decrease"}},
	}
	aggs := Aggregate(articles, All, day("2024-01-02"), time.UTC)
	require.Len(t, aggs, 1)

	a := aggs[Key{Day: "2024-01-01", Coin: "BTC"}]
	assert.Equal(t, map[impact.Label]int{impact.StrongIncrease: 1, impact.SlightDecrease: 1}, a.Counts)
	assert.Equal(t, 2, a.Observations)
	assert.InDelta(t, 1.0, a.AverageScore, 1e-9)
	assert.Equal(t, impact.Neutral, a.Sentiment)
}

func TestAggregate_WindowSparseAndCollisions(t *testing.T) {
	now := day("2024-01-10")
	articles := []model.Article{
		{ID: "old", PublishedAt: day("2024-01-01"), CoinAnalysis: map[string]string{"BTC": "strongly decrease"}},
		{ID: "a", PublishedAt: day("2024-01-09"), CoinAnalysis: map[string]string{"btc": "strongly increase", "BTC": "moderately_increase"}},
		{ID: "b", PublishedAt: day("2024-01-09").Add(3 * time.Hour), CoinAnalysis: map[string]string{"ETH": "strongly decrease", "XRP": "who knows"}},
		{ID: "c", PublishedAt: day("2024-01-08"), CoinAnalysis: nil},
	}
	aggs := Aggregate(articles, Day7, now, time.UTC)
	require.Len(t, aggs, 3)

	btc := aggs[Key{Day: "2024-01-09", Coin: "BTC"}]
	assert.Equal(t, 2, btc.Observations, "conflicting keys counted independently")
	assert.InDelta(t, 2.5, btc.AverageScore, 1e-9)
	assert.Equal(t, impact.Bullish, btc.Sentiment)

	eth := aggs[Key{Day: "2024-01-09", Coin: "ETH"}]
	assert.Equal(t, impact.Bearish, eth.Sentiment)

	xrp := aggs[Key{Day: "2024-01-09", Coin: "XRP"}]
	assert.Equal(t, 1, xrp.Counts[impact.Unknown])
	assert.Equal(t, impact.Neutral, xrp.Sentiment)

	_, ok := aggs[Key{Day: "2024-01-01", Coin: "BTC"}]
	assert.False(t, ok, "outside the window")
	_, ok = aggs[Key{Day: "2024-01-08", Coin: ""}]
	assert.False(t, ok, "no zero buckets")
}

func TestAggregate_Idempotent(t *testing.T) {
	articles := []model.Article{
		{PublishedAt: day("2024-01-01"), CoinAnalysis: map[string]string{"BTC": "stable", "ETH": "mod inc"}},
		{PublishedAt: day("2024-01-02"), CoinAnalysis: map[string]string{"BTC": "strongly_decrease"}},
	}
	now := day("2024-01-03")
	first := Aggregate(articles, Day30, now, time.UTC)
	second := Aggregate(articles, Day30, now, time.UTC)
	assert.Equal(t, first, second)
	assert.Equal(t, Sorted(first), Sorted(second))

	latestDay, latest := Latest(first)
	assert.Equal(t, "2024-01-02", latestDay)
	require.Len(t, latest, 1)
	assert.Equal(t, "BTC", latest[0].Coin)
}

func TestSorted_Order(t *testing.T) {
	aggs := map[Key]DailyCoinAggregate{
		{Day: "2024-01-01", Coin: "ETH"}: {Day: "2024-01-01", Coin: "ETH"},
		{Day: "2024-01-02", Coin: "SOL"}: {Day: "2024-01-02", Coin: "SOL"},
		{Day: "2024-01-02", Coin: "BTC"}: {Day: "2024-01-02", Coin: "BTC"},
	}
	got := Sorted(aggs)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"BTC", "SOL", "ETH"}, []string{got[0].Coin, got[1].Coin, got[2].Coin})

	d, l := Latest(nil)
	assert.Empty(t, d)
	assert.Nil(t, l)
}
