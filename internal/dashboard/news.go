package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/collector"
	"MooMetrics/internal/impact"
	"MooMetrics/internal/model"
)

// NewsState is the news panel's selection: time window, search term and
// which items are expanded.
type NewsState struct {
	Window   aggregate.Window
	Search   string
	Expanded map[string]bool
}

// Toggle flips the expanded flag of one item.
func (s *NewsState) Toggle(id string) {
	if s.Expanded == nil {
		s.Expanded = make(map[string]bool)
	}
	if s.Expanded[id] {
		delete(s.Expanded, id)
		return
	}
	s.Expanded[id] = true
}

// CoinBadge is one coin's impact call on an article.
type CoinBadge struct {
	Coin   string       `json:"coin"`
	Phrase string       `json:"phrase"`
	Label  impact.Label `json:"label"`
	Badge  string       `json:"badge"`
	Score  int          `json:"score"`
	Color  string       `json:"color"`
}

type NewsItem struct {
	model.Article
	Badges    []CoinBadge `json:"badges"`
	Expanded  bool        `json:"expanded"`
	Published string      `json:"published"`
}

type NewsView struct {
	Status    collector.Status               `json:"status"`
	Error     string                         `json:"error,omitempty"`
	Window    string                         `json:"window"`
	Search    string                         `json:"search,omitempty"`
	Items     []NewsItem                     `json:"items"`
	LatestDay string                         `json:"latest_day,omitempty"`
	Latest    []aggregate.DailyCoinAggregate `json:"latest"`
	Days      []aggregate.DailyCoinAggregate `json:"days"`
	FetchedAt time.Time                      `json:"fetched_at"`
}

// BuildNewsView filters the feed by window and search term and attaches
// per-article badges and per-day coin aggregates. Aggregates follow the
// window only; the search term narrows the item list.
func BuildNewsView(feed collector.Feed[model.Article], st NewsState, now time.Time, loc *time.Location) NewsView {
	v := NewsView{
		Status:    feed.Status,
		Error:     feed.Error,
		Window:    st.Window.String(),
		Search:    st.Search,
		Items:     []NewsItem{},
		Latest:    []aggregate.DailyCoinAggregate{},
		Days:      []aggregate.DailyCoinAggregate{},
		FetchedAt: feed.FetchedAt,
	}
	if !feed.Ready() {
		return v
	}

	aggs := aggregate.Aggregate(feed.Items, st.Window, now, loc)
	v.Days = aggregate.Sorted(aggs)
	if day, latest := aggregate.Latest(aggs); len(latest) > 0 {
		v.LatestDay, v.Latest = day, latest
	}

	term := strings.ToLower(strings.TrimSpace(st.Search))
	for _, a := range feed.Items {
		if !aggregate.InWindow(a.PublishedAt, now, st.Window) || !matches(a, term) {
			continue
		}
		v.Items = append(v.Items, NewsItem{
			Article:   a,
			Badges:    Badges(a.CoinAnalysis),
			Expanded:  st.Expanded[a.ID],
			Published: humanize.RelTime(a.PublishedAt, now, "ago", "from now"),
		})
	}
	sort.SliceStable(v.Items, func(i, j int) bool {
		return v.Items[i].PublishedAt.After(v.Items[j].PublishedAt)
	})
	return v
}

func matches(a model.Article, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{a.Title, a.Summary, a.Source} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Badges labels each coin of an article, ordered by coin key.
func Badges(coinAnalysis map[string]string) []CoinBadge {
	obs := aggregate.Observations(coinAnalysis)
	out := make([]CoinBadge, 0, len(obs))
	for _, o := range obs {
		out = append(out, CoinBadge{
			Coin:   o.Coin,
			Phrase: o.Phrase,
			Label:  o.Label,
			Badge:  impact.Badge(o.Label),
			Score:  impact.ScoreFor(o.Label),
			Color:  impact.ColorFor(o.Label),
		})
	}
	return out
}
