package impact

import "strings"

// Label is a normalized market-impact bucket.
type Label string

const (
	StrongIncrease   Label = "StrongIncrease"
	ModerateIncrease Label = "ModerateIncrease"
	SlightIncrease   Label = "SlightIncrease"
	Stable           Label = "Stable"
	SlightDecrease   Label = "SlightDecrease"
	ModerateDecrease Label = "ModerateDecrease"
	StrongDecrease   Label = "StrongDecrease"
	Unknown          Label = "Unknown"
)

// NeutralColor is used for Unknown and anything outside the lexicon.
const NeutralColor = "#9ca3af"

// Labels lists the closed label set from strongest increase to strongest decrease.
var Labels = []Label{
	StrongIncrease,
	ModerateIncrease,
	SlightIncrease,
	Stable,
	SlightDecrease,
	ModerateDecrease,
	StrongDecrease,
}

type entry struct {
	Score int
	Color string
}

var entries = map[Label]entry{
	StrongIncrease:   {Score: 3, Color: "#22c55e"},
	ModerateIncrease: {Score: 2, Color: "#4ade80"},
	SlightIncrease:   {Score: 1, Color: "#86efac"},
	Stable:           {Score: 0, Color: "#60a5fa"},
	SlightDecrease:   {Score: -1, Color: "#fca5a5"},
	ModerateDecrease: {Score: -2, Color: "#f87171"},
	StrongDecrease:   {Score: -3, Color: "#ef4444"},
}

// phrases maps normalized phrases (lowercase, single-spaced) to labels.
// The short forms are the legend badges; "moderately stable" and
// "slightly stable" come from the per-coin history feed.
var phrases = map[string]Label{
	"strongly increase":   StrongIncrease,
	"strong increase":     StrongIncrease,
	"strong inc":          StrongIncrease,
	"moderately increase": ModerateIncrease,
	"moderate increase":   ModerateIncrease,
	"mod inc":             ModerateIncrease,
	"slightly increase":   SlightIncrease,
	"slight increase":     SlightIncrease,
	"slight inc":          SlightIncrease,
	"stable":              Stable,
	"moderately stable":   Stable,
	"slightly stable":     Stable,
	"slightly decrease":   SlightDecrease,
	"slight decrease":     SlightDecrease,
	"slight dec":          SlightDecrease,
	"moderately decrease": ModerateDecrease,
	"moderate decrease":   ModerateDecrease,
	"mod dec":             ModerateDecrease,
	"strongly decrease":   StrongDecrease,
	"strong decrease":     StrongDecrease,
	"strong dec":          StrongDecrease,
}

// NormalizePhrase lowercases a phrase, turns underscores into spaces and
// collapses runs of whitespace.
func NormalizePhrase(phrase string) string {
	p := strings.ToLower(strings.ReplaceAll(phrase, "_", " "))
	return strings.Join(strings.Fields(p), " ")
}

// LabelFor maps a raw impact phrase to its label. Unrecognized phrases
// yield Unknown.
func LabelFor(phrase string) Label {
	if l, ok := phrases[NormalizePhrase(phrase)]; ok {
		return l
	}
	return Unknown
}

// Known reports whether the phrase resolves to a label other than Unknown.
func Known(phrase string) bool {
	return LabelFor(phrase) != Unknown
}

// ScoreFor returns the signed score of a label, 0 for Unknown.
func ScoreFor(l Label) int {
	return entries[l].Score
}

// ColorFor returns the display color of a label.
func ColorFor(l Label) string {
	if e, ok := entries[l]; ok {
		return e.Color
	}
	return NeutralColor
}
