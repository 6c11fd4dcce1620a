package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"MooMetrics/internal/model"
)

// videoResponse is the expected JSON shape of GET /youtube/get.
type videoResponse struct {
	Data *struct {
		TotalVideos int         `json:"total_videos" validate:"gte=0"`
		Videos      []wireVideo `json:"videos" validate:"required,dive"`
	} `json:"data" validate:"required"`
}

type wireVideo struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	ThumbnailURL string         `json:"thumbnail_url"`
	URL          string         `json:"url"`
	PublishedAt  string         `json:"published_at" validate:"required"`
	Analyses     []wireAnalysis `json:"analyses" validate:"dive"`
	ChannelName  string         `json:"channel_name" validate:"required"`
	ChannelID    string         `json:"channel_id"`
	Views        flexString     `json:"views"`
}

type wireAnalysis struct {
	CoinMentioned string   `json:"coin_mentioned" validate:"required"`
	Indicator     string   `json:"indicator"`
	Reason        []string `json:"reason"`
}

// newsResponse is the expected JSON shape of GET /crypto/summary.
type newsResponse struct {
	Status string     `json:"status" validate:"required"`
	Data   []wireNews `json:"data" validate:"required,dive"`
}

type wireNews struct {
	Title        string                    `json:"title" validate:"required"`
	URL          string                    `json:"url" validate:"required"`
	ImageURL     string                    `json:"image_url"`
	Date         string                    `json:"date" validate:"required"`
	Source       string                    `json:"source"`
	Summary      string                    `json:"summary"`
	CoinAnalysis map[string]wireCoinImpact `json:"coin_analysis" validate:"dive"`
}

type wireCoinImpact struct {
	Coin         string `json:"coin"`
	MarketImpact string `json:"market_impact" validate:"required"`
}

// historyResponse is the expected JSON shape of GET /crypto/{coin}.
type historyResponse struct {
	Data *struct {
		Data map[string]wireHistoryDay `json:"data" validate:"required,dive"`
	} `json:"data" validate:"required"`
}

type wireHistoryDay struct {
	MarketImpact map[string]int `json:"market_impact" validate:"required"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("views: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// parseTimestamp accepts the layouts seen upstream. Zone-less values are UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// articleID derives a stable ID from the article URL.
func articleID(link string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

func (w wireNews) toArticle() (model.Article, error) {
	published, err := parseTimestamp(w.Date)
	if err != nil {
		return model.Article{}, err
	}
	coins := make(map[string]string, len(w.CoinAnalysis))
	for key, ci := range w.CoinAnalysis {
		coin := key
		if strings.TrimSpace(coin) == "" {
			coin = ci.Coin
		}
		coins[coin] = ci.MarketImpact
	}
	return model.Article{
		ID:           articleID(w.URL),
		Title:        w.Title,
		URL:          w.URL,
		ImageURL:     w.ImageURL,
		Source:       w.Source,
		Summary:      w.Summary,
		PublishedAt:  published,
		CoinAnalysis: coins,
	}, nil
}

func (w wireVideo) toVideo() (model.Video, error) {
	published, err := parseTimestamp(w.PublishedAt)
	if err != nil {
		return model.Video{}, err
	}
	analyses := make([]model.Analysis, 0, len(w.Analyses))
	for _, a := range w.Analyses {
		analyses = append(analyses, model.Analysis{
			Coin:      a.CoinMentioned,
			Indicator: a.Indicator,
			Reasons:   a.Reason,
		})
	}
	return model.Video{
		ID:           w.ID,
		Title:        w.Title,
		ThumbnailURL: w.ThumbnailURL,
		URL:          w.URL,
		PublishedAt:  published,
		Analyses:     analyses,
		ChannelName:  w.ChannelName,
		ChannelID:    w.ChannelID,
		Views:        string(w.Views),
	}, nil
}
