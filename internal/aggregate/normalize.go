package aggregate

import (
	"sort"
	"strings"

	"MooMetrics/internal/impact"
)

// CoinLabel is one normalized coin observation from an article.
type CoinLabel struct {
	Coin   string       `json:"coin"`
	Phrase string       `json:"phrase"`
	Label  impact.Label `json:"label"`
}

// CoinKey is the grouping key for a coin symbol: trimmed and uppercased.
func CoinKey(coin string) string {
	return strings.ToUpper(strings.TrimSpace(coin))
}

// Observations returns every (coin, label) pair in an article's coin
// analysis, ordered by raw key. Keys that collide after normalization
// ("btc" and "BTC") each produce their own observation.
func Observations(coinAnalysis map[string]string) []CoinLabel {
	keys := make([]string, 0, len(coinAnalysis))
	for k := range coinAnalysis {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]CoinLabel, 0, len(keys))
	for _, k := range keys {
		coin := CoinKey(k)
		if coin == "" {
			continue
		}
		phrase := coinAnalysis[k]
		out = append(out, CoinLabel{Coin: coin, Phrase: phrase, Label: impact.LabelFor(phrase)})
	}
	return out
}

// Normalize maps each coin to its impact label. On a case collision the
// first key in sorted order wins.
func Normalize(coinAnalysis map[string]string) map[string]impact.Label {
	out := make(map[string]impact.Label, len(coinAnalysis))
	for _, o := range Observations(coinAnalysis) {
		if _, ok := out[o.Coin]; ok {
			continue
		}
		out[o.Coin] = o.Label
	}
	return out
}
