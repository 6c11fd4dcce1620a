package aggregate

import (
	"sort"

	"MooMetrics/internal/impact"
	"MooMetrics/internal/model"
)

// DailyImpact is one point on a coin's impact history.
type DailyImpact struct {
	Date         string               `json:"date"`
	Counts       map[impact.Label]int `json:"counts"`
	Observations int                  `json:"observations"`
	AverageScore float64              `json:"average_score"`
	Sentiment    impact.Class         `json:"sentiment"`
}

// History folds the upstream per-day phrase counts into label counts,
// summing space- and underscore-separated spellings of the same phrase.
// Points are ordered by date ascending.
func History(h model.CoinHistory) []DailyImpact {
	out := make([]DailyImpact, 0, len(h.Days))
	for date, phrases := range h.Days {
		p := DailyImpact{Date: date, Counts: make(map[impact.Label]int)}
		sum := 0
		for phrase, n := range phrases {
			if n <= 0 {
				continue
			}
			l := impact.LabelFor(phrase)
			p.Counts[l] += n
			p.Observations += n
			sum += n * impact.ScoreFor(l)
		}
		if p.Observations > 0 {
			p.AverageScore = float64(sum) / float64(p.Observations)
		}
		p.Sentiment = impact.Classify(p.AverageScore)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
