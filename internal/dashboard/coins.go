package dashboard

import (
	"errors"
	"fmt"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/impact"
	"MooMetrics/internal/model"
)

// ErrUnknownCoin is returned for coins outside the configured selector.
var ErrUnknownCoin = errors.New("coin not tracked")

type CoinView struct {
	Coin   model.Coin              `json:"coin"`
	Coins  []model.Coin            `json:"coins"`
	Points []aggregate.DailyImpact `json:"points"`
	Latest *aggregate.DailyImpact  `json:"latest,omitempty"`
}

type LegendView struct {
	Entries []impact.LegendEntry   `json:"entries"`
	Rules   []impact.SentimentRule `json:"rules"`
}

// ResolveCoin finds symbol in the configured coin list, ignoring case.
func ResolveCoin(coins []model.Coin, symbol string) (model.Coin, error) {
	key := aggregate.CoinKey(symbol)
	for _, c := range coins {
		if aggregate.CoinKey(c.Symbol) == key {
			return c, nil
		}
	}
	return model.Coin{}, fmt.Errorf("%w: %q", ErrUnknownCoin, symbol)
}

// BuildCoinView wraps a coin's impact history for the chart. Points are
// expected in ascending date order.
func BuildCoinView(coin model.Coin, coins []model.Coin, points []aggregate.DailyImpact) CoinView {
	if points == nil {
		points = []aggregate.DailyImpact{}
	}
	v := CoinView{Coin: coin, Coins: coins, Points: points}
	if n := len(points); n > 0 {
		last := points[n-1]
		v.Latest = &last
	}
	return v
}

func BuildLegendView() LegendView {
	return LegendView{Entries: impact.Legend(), Rules: impact.SentimentRules()}
}
