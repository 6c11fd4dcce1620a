package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/collector"
	"MooMetrics/internal/impact"
	"MooMetrics/internal/model"
)

var classEmoji = map[impact.Class]string{
	impact.Bullish: "🟢",
	impact.Neutral: "⚪",
	impact.Bearish: "🔴",
}

var trendArrow = map[impact.Trend]string{
	impact.TrendUp:   "▲",
	impact.TrendFlat: "▬",
	impact.TrendDown: "▼",
}

// FormatDigest formats one day's coin aggregates, busiest coins first.
// limit <= 0 lists every coin.
func FormatDigest(day string, aggs []aggregate.DailyCoinAggregate, limit int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>MooMetrics digest</b> | %s\n\n", day))

	if len(aggs) == 0 {
		b.WriteString("No coin analysis published for this day.\n")
		return b.String()
	}

	sorted := make([]aggregate.DailyCoinAggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Observations != sorted[j].Observations {
			return sorted[i].Observations > sorted[j].Observations
		}
		return sorted[i].Coin < sorted[j].Coin
	})
	shown := sorted
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var tally impact.Tally
	for _, a := range sorted {
		switch a.Sentiment {
		case impact.Bullish:
			tally.Bullish++
		case impact.Bearish:
			tally.Bearish++
		default:
			tally.Neutral++
		}
	}

	for _, a := range shown {
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %s (avg %+.2f, %s)\n",
			classEmoji[a.Sentiment], html.EscapeString(a.Coin), a.Sentiment,
			a.AverageScore, pluralize(a.Observations, "call")))
	}
	if rest := len(sorted) - len(shown); rest > 0 {
		b.WriteString(fmt.Sprintf("… and %d more\n", rest))
	}
	b.WriteString(fmt.Sprintf("\n%d bullish · %d neutral · %d bearish\n", tally.Bullish, tally.Neutral, tally.Bearish))
	return b.String()
}

// FormatLegend formats the impact scale and sentiment thresholds.
func FormatLegend(entries []impact.LegendEntry, rules []impact.SentimentRule) string {
	var b strings.Builder
	b.WriteString("📖 <b>Market impact legend</b>\n\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s <b>%s</b> (%+d) %s\n", trendArrow[e.Trend], e.Badge, e.Score, e.Description))
	}
	b.WriteString("\n<b>Sentiment</b>\n")
	for _, r := range rules {
		b.WriteString(fmt.Sprintf("%s %s: %s\n", classEmoji[r.Class], r.Class, r.Rule))
	}
	return b.String()
}

// FormatCoinHistory formats the most recent days of a coin's history.
// Points are expected in ascending date order.
func FormatCoinHistory(coin model.Coin, points []aggregate.DailyImpact, days int) string {
	var b strings.Builder
	name := coin.Symbol
	if coin.Name != "" {
		name = fmt.Sprintf("%s (%s)", coin.Name, coin.Symbol)
	}
	b.WriteString(fmt.Sprintf("📈 <b>%s impact history</b>\n\n", html.EscapeString(name)))

	if len(points) == 0 {
		b.WriteString("No history available.\n")
		return b.String()
	}
	if days > 0 && len(points) > days {
		points = points[len(points)-days:]
	}
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		b.WriteString(fmt.Sprintf("%s %s %s avg %+.2f", p.Date, classEmoji[p.Sentiment], p.Sentiment, p.AverageScore))
		if top, n := dominant(p.Counts); n > 0 {
			b.WriteString(fmt.Sprintf(" · mostly %s ×%d", impact.Badge(top), n))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatStatus reports the state of both feeds.
func FormatStatus(snap collector.Snapshot, now time.Time) string {
	var b strings.Builder
	b.WriteString("🩺 <b>Feed status</b>\n\n")
	writeFeed(&b, "News", snap.News.Status, len(snap.News.Items), snap.News.Error, snap.News.FetchedAt, now)
	writeFeed(&b, "Videos", snap.Videos.Status, len(snap.Videos.Items), snap.Videos.Error, snap.Videos.FetchedAt, now)
	return b.String()
}

func writeFeed(b *strings.Builder, name string, status collector.Status, items int, errText string, fetchedAt, now time.Time) {
	switch status {
	case collector.StatusReady:
		b.WriteString(fmt.Sprintf("✅ %s: %s, updated %s\n", name, pluralize(items, "item"),
			humanize.RelTime(fetchedAt, now, "ago", "from now")))
	case collector.StatusError:
		b.WriteString(fmt.Sprintf("❌ %s: %s\n", name, html.EscapeString(errText)))
	default:
		b.WriteString(fmt.Sprintf("⏳ %s: loading\n", name))
	}
}

// dominant returns the most frequent label, preferring the higher score on ties.
func dominant(counts map[impact.Label]int) (impact.Label, int) {
	best, n := impact.Unknown, 0
	for _, l := range append(append([]impact.Label{}, impact.Labels...), impact.Unknown) {
		if counts[l] > n {
			best, n = l, counts[l]
		}
	}
	return best, n
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
