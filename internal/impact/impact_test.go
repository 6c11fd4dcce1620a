package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelFor_SeparatorAndCaseInsensitive(t *testing.T) {
	tests := []struct {
		phrases []string
		label   Label
	}{
		{[]string{"strongly increase", "strongly_increase", "Strongly Increase", "STRONGLY_INCREASE"}, StrongIncrease},
		{[]string{"moderately increase", "moderately_increase", "Moderately_Increase"}, ModerateIncrease},
		{[]string{"slightly increase", "slightly_increase", " slightly  increase "}, SlightIncrease},
		{[]string{"stable", "Stable", "STABLE"}, Stable},
		{[]string{"slightly decrease", "slightly_decrease"}, SlightDecrease},
		{[]string{"moderately decrease", "moderately_decrease", "MODERATELY decrease"}, ModerateDecrease},
		{[]string{"strongly decrease", "strongly_decrease"}, StrongDecrease},
		{[]string{"moderately stable", "slightly_stable"}, Stable},
		{[]string{"Mod inc", "mod_inc"}, ModerateIncrease},
		{[]string{"slight dec", "Slight Dec"}, SlightDecrease},
	}
	for _, tt := range tests {
		for _, p := range tt.phrases {
			assert.Equal(t, tt.label, LabelFor(p), "phrase %q", p)
		}
	}
}

func TestLabelFor_Unknown(t *testing.T) {
	l := LabelFor("wildly increase")
	assert.Equal(t, Unknown, l)
	assert.Equal(t, 0, ScoreFor(l))
	assert.Equal(t, NeutralColor, ColorFor(l))
	assert.False(t, Known("wildly increase"))
	assert.Equal(t, Unknown, LabelFor(""))
}

func TestScoreFor_Monotonic(t *testing.T) {
	assert.Equal(t, 0, ScoreFor(Stable))
	require.Len(t, Labels, 7)
	for i := 1; i < len(Labels); i++ {
		assert.Greater(t, ScoreFor(Labels[i-1]), ScoreFor(Labels[i]),
			"%s should score above %s", Labels[i-1], Labels[i])
	}
	assert.Equal(t, 3, ScoreFor(StrongIncrease))
	assert.Equal(t, -3, ScoreFor(StrongDecrease))
}

func TestColorFor_Total(t *testing.T) {
	seen := map[string]bool{}
	for _, l := range Labels {
		c := ColorFor(l)
		assert.NotEqual(t, NeutralColor, c)
		assert.False(t, seen[c], "duplicate color %s", c)
		seen[c] = true
	}
	assert.Equal(t, NeutralColor, ColorFor(Label("bogus")))
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		class Class
	}{
		{3, Bullish},
		{1.0001, Bullish},
		{1.0, Neutral},
		{0, Neutral},
		{-1.0, Neutral},
		{-1.0001, Bearish},
		{-3, Bearish},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.class, Classify(tt.score), "score %v", tt.score)
	}
}

func TestTallyIndicators(t *testing.T) {
	got := TallyIndicators([]string{"Bullish", "Very bullish", "Neutral", "bearish short-term", "mixed"})
	assert.Equal(t, Tally{Bullish: 2, Neutral: 1, Bearish: 1}, got)

	c, ok := IndicatorClass("Neutral to Bullish")
	require.True(t, ok)
	assert.Equal(t, Bullish, c)
}

func TestLegend(t *testing.T) {
	legend := Legend()
	require.Len(t, legend, 7)
	assert.Equal(t, "Strong inc", legend[0].Badge)
	assert.Equal(t, 3, legend[0].Score)
	assert.Equal(t, TrendUp, legend[0].Trend)
	assert.Equal(t, Stable, legend[3].Label)
	assert.Equal(t, TrendFlat, legend[3].Trend)
	assert.Equal(t, "Strong dec", legend[6].Badge)
	assert.Equal(t, TrendDown, legend[6].Trend)

	for _, e := range legend {
		assert.Equal(t, e.Label, LabelFor(e.Badge), "badge %q round-trips", e.Badge)
	}
	assert.Len(t, SentimentRules(), 3)
}
