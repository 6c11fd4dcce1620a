package model

import "time"

// Analysis is a single coin call inside a video.
type Analysis struct {
	Coin      string   `json:"coin_mentioned"`
	Indicator string   `json:"indicator"`
	Reasons   []string `json:"reason"`
}

// Video is one analysed upload from a tracked channel.
type Video struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	ThumbnailURL string     `json:"thumbnail_url"`
	URL          string     `json:"url"`
	PublishedAt  time.Time  `json:"published_at"`
	Analyses     []Analysis `json:"analyses"`
	ChannelName  string     `json:"channel_name"`
	ChannelID    string     `json:"channel_id"`
	Views        string     `json:"views"`
}
