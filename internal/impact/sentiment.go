package impact

import "strings"

// Class is the coarse sentiment derived from an average impact score.
type Class string

const (
	Bullish Class = "Bullish"
	Neutral Class = "Neutral"
	Bearish Class = "Bearish"
)

// Thresholds are exclusive: exactly +1 or -1 is Neutral.
const (
	BullishAbove = 1.0
	BearishBelow = -1.0
)

// Classify maps an average daily score to a sentiment class.
func Classify(averageScore float64) Class {
	switch {
	case averageScore > BullishAbove:
		return Bullish
	case averageScore < BearishBelow:
		return Bearish
	default:
		return Neutral
	}
}

// Tally counts video indicators ("Bullish", "slightly bearish", ...) by the
// sentiment word they contain. Indicators matching none of the three are skipped.
type Tally struct {
	Bullish int `json:"bullish"`
	Neutral int `json:"neutral"`
	Bearish int `json:"bearish"`
}

// IndicatorClass reports which class an indicator string names, checking
// bullish before neutral before bearish.
func IndicatorClass(indicator string) (Class, bool) {
	s := strings.ToLower(indicator)
	switch {
	case strings.Contains(s, "bullish"):
		return Bullish, true
	case strings.Contains(s, "neutral"):
		return Neutral, true
	case strings.Contains(s, "bearish"):
		return Bearish, true
	}
	return "", false
}

// TallyIndicators counts each indicator once per occurrence in the slice.
func TallyIndicators(indicators []string) Tally {
	var t Tally
	for _, ind := range indicators {
		c, ok := IndicatorClass(ind)
		if !ok {
			continue
		}
		switch c {
		case Bullish:
			t.Bullish++
		case Neutral:
			t.Neutral++
		case Bearish:
			t.Bearish++
		}
	}
	return t
}
