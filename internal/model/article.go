package model

import "time"

// Article is one news item with per-coin impact phrases.
type Article struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	URL          string            `json:"url"`
	ImageURL     string            `json:"image_url,omitempty"`
	Source       string            `json:"source"`
	Summary      string            `json:"summary"`
	PublishedAt  time.Time         `json:"published_at"`
	CoinAnalysis map[string]string `json:"coin_analysis"` // coin symbol -> impact phrase
}
