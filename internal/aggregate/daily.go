package aggregate

import (
	"sort"
	"time"

	"MooMetrics/internal/impact"
	"MooMetrics/internal/model"
)

// Key identifies one (day, coin) bucket.
type Key struct {
	Day  string
	Coin string
}

// DailyCoinAggregate is the tally for one coin on one calendar day.
type DailyCoinAggregate struct {
	Day          string               `json:"day"`
	Coin         string               `json:"coin"`
	Counts       map[impact.Label]int `json:"counts"`
	Observations int                  `json:"observations"`
	ScoreSum     int                  `json:"score_sum"`
	AverageScore float64              `json:"average_score"`
	Sentiment    impact.Class         `json:"sentiment"`
}

// Aggregate filters articles by window and tallies impact labels per
// calendar day (in loc) and coin. Only buckets with at least one observation
// appear in the result. The input is not modified and the output is built
// fresh on every call.
func Aggregate(articles []model.Article, w Window, now time.Time, loc *time.Location) map[Key]DailyCoinAggregate {
	acc := make(map[Key]*DailyCoinAggregate)
	for _, a := range articles {
		if !InWindow(a.PublishedAt, now, w) {
			continue
		}
		day := DayOf(a.PublishedAt, loc)
		for _, o := range Observations(a.CoinAnalysis) {
			k := Key{Day: day, Coin: o.Coin}
			agg, ok := acc[k]
			if !ok {
				agg = &DailyCoinAggregate{Day: day, Coin: o.Coin, Counts: make(map[impact.Label]int)}
				acc[k] = agg
			}
			agg.Counts[o.Label]++
			agg.Observations++
			agg.ScoreSum += impact.ScoreFor(o.Label)
		}
	}

	out := make(map[Key]DailyCoinAggregate, len(acc))
	for k, agg := range acc {
		agg.AverageScore = float64(agg.ScoreSum) / float64(agg.Observations)
		agg.Sentiment = impact.Classify(agg.AverageScore)
		out[k] = *agg
	}
	return out
}

// Sorted flattens an aggregate map, newest day first, then by coin.
func Sorted(aggs map[Key]DailyCoinAggregate) []DailyCoinAggregate {
	out := make([]DailyCoinAggregate, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day > out[j].Day
		}
		return out[i].Coin < out[j].Coin
	})
	return out
}

// Latest returns the aggregates of the most recent day present.
func Latest(aggs map[Key]DailyCoinAggregate) (string, []DailyCoinAggregate) {
	sorted := Sorted(aggs)
	if len(sorted) == 0 {
		return "", nil
	}
	day := sorted[0].Day
	n := 0
	for n < len(sorted) && sorted[n].Day == day {
		n++
	}
	return day, sorted[:n]
}
