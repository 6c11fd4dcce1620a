package aggregate

import (
	"strings"
	"time"

	"MooMetrics/internal/impact"
	"MooMetrics/internal/model"
)

// ChannelCount is one roster row with its upload count for the selected day.
type ChannelCount struct {
	Channel model.Channel `json:"channel"`
	Count   int           `json:"count"`
}

// CoinMention merges every analysis of one coin across a set of videos.
type CoinMention struct {
	Coin       string       `json:"coin"`
	Indicators []string     `json:"indicators"`
	Reasons    []string     `json:"reasons"`
	Tally      impact.Tally `json:"tally"`
}

// VideosOn keeps videos published on the same calendar day as day.
func VideosOn(videos []model.Video, day time.Time, loc *time.Location) []model.Video {
	var out []model.Video
	for _, v := range videos {
		if SameDay(v.PublishedAt, day, loc) {
			out = append(out, v)
		}
	}
	return out
}

// VideosForChannel keeps videos whose channel name matches, ignoring case.
func VideosForChannel(videos []model.Video, channel string) []model.Video {
	var out []model.Video
	for _, v := range videos {
		if strings.EqualFold(v.ChannelName, channel) {
			out = append(out, v)
		}
	}
	return out
}

// ChannelCounts counts uploads per roster channel on day. Videos from
// channels outside the roster are ignored. With seedRoster every roster
// channel is listed, zero counts included; without it only channels with
// uploads appear. Rows follow roster order either way.
func ChannelCounts(videos []model.Video, day time.Time, roster []model.Channel, loc *time.Location, seedRoster bool) []ChannelCount {
	counts := make([]int, len(roster))
	for _, v := range VideosOn(videos, day, loc) {
		for i, ch := range roster {
			if strings.EqualFold(ch.Name, v.ChannelName) {
				counts[i]++
				break
			}
		}
	}

	out := make([]ChannelCount, 0, len(roster))
	for i, ch := range roster {
		if !seedRoster && counts[i] == 0 {
			continue
		}
		out = append(out, ChannelCount{Channel: ch, Count: counts[i]})
	}
	return out
}

// CoinMentions groups analyses by coin (case-insensitive, first spelling
// kept) in first-seen order. Indicators and reasons are de-duplicated
// preserving order; the tally counts distinct indicators.
func CoinMentions(videos []model.Video) []CoinMention {
	var order []string
	byCoin := make(map[string]*CoinMention)
	seenInd := make(map[string]map[string]bool)
	seenReason := make(map[string]map[string]bool)

	for _, v := range videos {
		for _, a := range v.Analyses {
			k := CoinKey(a.Coin)
			if k == "" {
				continue
			}
			m, ok := byCoin[k]
			if !ok {
				m = &CoinMention{Coin: strings.TrimSpace(a.Coin)}
				byCoin[k] = m
				seenInd[k] = make(map[string]bool)
				seenReason[k] = make(map[string]bool)
				order = append(order, k)
			}
			if !seenInd[k][a.Indicator] {
				seenInd[k][a.Indicator] = true
				m.Indicators = append(m.Indicators, a.Indicator)
			}
			for _, r := range a.Reasons {
				if seenReason[k][r] {
					continue
				}
				seenReason[k][r] = true
				m.Reasons = append(m.Reasons, r)
			}
		}
	}

	out := make([]CoinMention, 0, len(order))
	for _, k := range order {
		m := byCoin[k]
		m.Tally = impact.TallyIndicators(m.Indicators)
		out = append(out, *m)
	}
	return out
}
