package curator

import (
	"math"
	"strings"
	"time"
)

// unparsedPlayedDays is the age assumed for a last-played value that cannot be parsed.
// Treating it as recent keeps recency and cooldown rules conservative.
const unparsedPlayedDays = 0.5

var playedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParsePlayed parses a last-played timestamp. Values without a zone are read as UTC.
func ParsePlayed(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range playedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysSincePlayed returns how many days before now the track was last played, at hour
// precision and never negative. ok is false when the track has no last-played value.
func DaysSincePlayed(raw string, now time.Time) (days float64, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}
	played, parsed := ParsePlayed(raw)
	if !parsed {
		return unparsedPlayedDays, true
	}
	hours := math.Floor(now.Sub(played).Hours())
	return math.Max(hours/24, 0), true
}
