package model

// CoinHistory is the raw per-day phrase tally for a single coin, keyed by
// date string, then by impact phrase as sent upstream (either separator).
type CoinHistory struct {
	Coin string                    `json:"coin"`
	Days map[string]map[string]int `json:"days"`
}
