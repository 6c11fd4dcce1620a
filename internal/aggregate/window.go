package aggregate

import (
	"fmt"
	"strings"
	"time"
)

// Window is a relative lookback period for the news feed.
type Window int

const (
	All Window = iota
	Day1
	Day7
	Day30
)

const dayLayout = "2006-01-02"

// ParseWindow accepts "all", "1d", "7d", "30d" and a few spellings of each.
// The empty string means All.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "1d", "1", "24h", "day":
		return Day1, nil
	case "7d", "7", "week":
		return Day7, nil
	case "30d", "30", "month":
		return Day30, nil
	}
	return All, fmt.Errorf("unknown time window %q", s)
}

// Days is the window length in days, 0 for All.
func (w Window) Days() int {
	switch w {
	case Day1:
		return 1
	case Day7:
		return 7
	case Day30:
		return 30
	default:
		return 0
	}
}

func (w Window) String() string {
	if w == All {
		return "all"
	}
	return fmt.Sprintf("%dd", w.Days())
}

// InWindow reports whether publishedAt lies within the window ending at now.
// The comparison uses elapsed time, not calendar days: an item exactly
// N*24h old is still inside an N-day window.
func InWindow(publishedAt, now time.Time, w Window) bool {
	if w == All {
		return true
	}
	elapsed := now.Sub(publishedAt).Hours() / 24
	return elapsed <= float64(w.Days())
}

// SameDay reports whether a and b fall on the same calendar day in loc.
// Used by the per-day video selector; it is not equivalent to InWindow(Day1).
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayOf(a, loc) == DayOf(b, loc)
}

// DayOf formats t as YYYY-MM-DD in loc. A nil loc means UTC.
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dayLayout)
}

// ParseDay parses a YYYY-MM-DD string as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return d, nil
}
