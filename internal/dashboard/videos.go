package dashboard

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/collector"
	"MooMetrics/internal/model"
)

// VideoState is the video panel's selection. Zero values mean today, the
// first video's channel and no open video.
type VideoState struct {
	Date    time.Time
	Channel string
	VideoID int64
}

type VideoItem struct {
	model.Video
	Published string `json:"published"`
}

type VideoView struct {
	Status       collector.Status         `json:"status"`
	Error        string                   `json:"error,omitempty"`
	Date         string                   `json:"date"`
	TotalOnDate  int                      `json:"total_on_date"`
	Channels     []aggregate.ChannelCount `json:"channels"`
	Channel      string                   `json:"channel"`
	EmptyChannel bool                     `json:"empty_channel"`
	Videos       []VideoItem              `json:"videos"`
	Mentions     []aggregate.CoinMention  `json:"mentions"`
	// SelectionMentions narrows Mentions to the open video, or to the
	// chosen channel when no video is open.
	SelectionMentions []aggregate.CoinMention `json:"selection_mentions"`
	Selected          *VideoItem              `json:"selected,omitempty"`
	FetchedAt         time.Time               `json:"fetched_at"`
}

// VideoOptions carries the configured channel roster and its seeding mode.
type VideoOptions struct {
	Roster     []model.Channel
	SeedRoster bool
	Location   *time.Location
}

// BuildVideoView selects one calendar day of uploads, tallies them per
// roster channel and merges the coin mentions of every video that day. It
// also lists the chosen channel's videos.
func BuildVideoView(feed collector.Feed[model.Video], st VideoState, opts VideoOptions, now time.Time) VideoView {
	day := st.Date
	if day.IsZero() {
		day = now
	}
	v := VideoView{
		Status:    feed.Status,
		Error:     feed.Error,
		Date:      aggregate.DayOf(day, opts.Location),
		Channels:  []aggregate.ChannelCount{},
		Videos:    []VideoItem{},
		Mentions:  []aggregate.CoinMention{},
		FetchedAt: feed.FetchedAt,

		SelectionMentions: []aggregate.CoinMention{},
	}
	if !feed.Ready() {
		return v
	}

	onDay := aggregate.VideosOn(feed.Items, day, opts.Location)
	v.TotalOnDate = len(onDay)
	v.Channels = aggregate.ChannelCounts(feed.Items, day, opts.Roster, opts.Location, opts.SeedRoster)

	v.Channel = strings.TrimSpace(st.Channel)
	if v.Channel == "" {
		v.Channel = defaultChannel(onDay, feed.Items)
	}

	selected := aggregate.VideosForChannel(onDay, v.Channel)
	v.EmptyChannel = len(selected) == 0
	for _, vid := range selected {
		item := VideoItem{Video: vid, Published: humanize.RelTime(vid.PublishedAt, now, "ago", "from now")}
		v.Videos = append(v.Videos, item)
		if st.VideoID != 0 && vid.ID == st.VideoID {
			sel := item
			v.Selected = &sel
		}
	}

	v.Mentions = aggregate.CoinMentions(onDay)
	if v.Selected != nil {
		v.SelectionMentions = aggregate.CoinMentions([]model.Video{v.Selected.Video})
	} else {
		v.SelectionMentions = aggregate.CoinMentions(selected)
	}
	return v
}

// defaultChannel is the channel of the selected day's first upload, or of
// the feed's first video when that day has none.
func defaultChannel(onDay, all []model.Video) string {
	if len(onDay) > 0 {
		return onDay[0].ChannelName
	}
	if len(all) > 0 {
		return all[0].ChannelName
	}
	return ""
}
