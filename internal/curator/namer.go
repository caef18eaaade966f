package curator

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
)

var descriptors = []string{
	"mix", "blend", "rotation", "selection", "session", "medley", "assortment", "soundtrack",
}

// Name derives a lowercase playlist title from base and the final metrics.
//
// The title is composed of the base name, the weekday of now, a tempo mood, the
// dominant genre (or a descriptor when no genre dominates) and an era label when the
// release years are close enough together. Static naming returns base unchanged.
func Name(base string, m models.PlaylistMetrics, rules profile.NamingRules, now time.Time) string {
	base = strings.TrimSpace(base)
	if rules.Static {
		return base
	}

	parts := make([]string, 0, 5)
	if base != "" {
		parts = append(parts, base)
	}
	if rules.Weekday {
		parts = append(parts, now.Weekday().String())
	}
	if rules.TempoMood {
		if mood := TempoMood(m.AverageTempo); mood != "" {
			parts = append(parts, mood)
		}
	}

	threshold := rules.DominanceThreshold
	if threshold <= 0 {
		threshold = profile.DefaultDominanceThreshold
	}
	if genre, share := DominantGenre(m); genre != "" && share >= threshold {
		parts = append(parts, genre)
	} else {
		parts = append(parts, descriptor(base, now))
	}

	if rules.Era {
		if era := EraLabel(m.EraSpan); era != "" {
			parts = append(parts, era)
		}
	}

	return strings.ToLower(strings.Join(parts, " "))
}

// TempoMood maps an average tempo to a mood word. Unknown tempo yields "".
func TempoMood(avg float64) string {
	switch {
	case avg <= 0:
		return ""
	case avg < 80:
		return "mellow"
	case avg < 100:
		return "chill"
	case avg < 120:
		return "groovy"
	case avg < 140:
		return "upbeat"
	default:
		return "energetic"
	}
}

// EraLabel names the decade of a year span, e.g. "90s" or "2010s". Spans too wide
// for their decade yield "". Older decades tolerate wider spans.
func EraLabel(span *models.EraSpan) string {
	if span == nil {
		return ""
	}
	decade := (span.Earliest + span.Latest) / 2 / 10 * 10

	tolerance := 20
	switch {
	case decade >= 2000:
		tolerance = 10
	case decade >= 1980:
		tolerance = 15
	}
	if span.Years() > tolerance {
		return ""
	}

	if decade >= 2000 {
		return fmt.Sprintf("%ds", decade)
	}
	return fmt.Sprintf("%02ds", decade%100)
}

func descriptor(base string, now time.Time) string {
	key := base + now.Format(time.DateOnly)
	return descriptors[xxhash.Sum64String(key)%uint64(len(descriptors))]
}
