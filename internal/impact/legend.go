package impact

// Trend is the arrow shown next to a legend entry.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendFlat Trend = "flat"
	TrendDown Trend = "down"
)

// LegendEntry describes one level of the seven-level impact scale.
type LegendEntry struct {
	Label       Label  `json:"label"`
	Badge       string `json:"badge"`
	Description string `json:"description"`
	Score       int    `json:"score"`
	Color       string `json:"color"`
	Trend       Trend  `json:"trend"`
}

// SentimentRule explains one sentiment class in terms of the daily average.
type SentimentRule struct {
	Class Class  `json:"class"`
	Rule  string `json:"rule"`
}

var badges = map[Label]struct {
	badge, description string
}{
	StrongIncrease:   {"Strong inc", "Strong potential for significant price increase"},
	ModerateIncrease: {"Mod inc", "Moderate upward price movement expected"},
	SlightIncrease:   {"Slight inc", "Small positive price impact likely"},
	Stable:           {"Stable", "Price expected to remain relatively unchanged"},
	SlightDecrease:   {"Slight dec", "Small negative price impact likely"},
	ModerateDecrease: {"Mod dec", "Moderate downward price movement expected"},
	StrongDecrease:   {"Strong dec", "Strong potential for significant price decrease"},
}

// Legend returns the impact scale from +3 down to -3.
func Legend() []LegendEntry {
	out := make([]LegendEntry, 0, len(Labels))
	for _, l := range Labels {
		b := badges[l]
		score := ScoreFor(l)
		trend := TrendFlat
		if score > 0 {
			trend = TrendUp
		} else if score < 0 {
			trend = TrendDown
		}
		out = append(out, LegendEntry{
			Label:       l,
			Badge:       b.badge,
			Description: b.description,
			Score:       score,
			Color:       ColorFor(l),
			Trend:       trend,
		})
	}
	return out
}

// Badge returns the short display text for a label.
func Badge(l Label) string {
	if b, ok := badges[l]; ok {
		return b.badge
	}
	return string(Unknown)
}

// SentimentRules describes how daily averages map to classes.
func SentimentRules() []SentimentRule {
	return []SentimentRule{
		{Class: Bullish, Rule: "Average daily score > 1"},
		{Class: Neutral, Rule: "Average daily score between -1 and 1"},
		{Class: Bearish, Rule: "Average daily score < -1"},
	}
}
