package curator

import (
	"time"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
)

// Violation names the hard constraint a candidate breaks.
type Violation string

const (
	NoViolation       Violation = ""
	ArtistRepeat      Violation = "artist_repeat"
	AlbumRepeat       Violation = "album_repeat"
	TempoJump         Violation = "tempo_jump"
	CooldownViolation Violation = "cooldown"
)

// CheckConstraints returns the first hard constraint candidate would break if appended
// to placed, or [NoViolation].
//
// Artist and album comparisons ignore case and surrounding whitespace. Empty artist or
// album values never count as repeats.
func CheckConstraints(placed []models.Track, candidate models.Track, rules profile.TransitionRules, now time.Time) Violation {
	if repeatsWithin(placed, rules.ArtistWindow, candidate.Artist, func(t models.Track) string { return t.Artist }) {
		return ArtistRepeat
	}
	if repeatsWithin(placed, rules.AlbumWindow, candidate.Album, func(t models.Track) string { return t.Album }) {
		return AlbumRepeat
	}

	if len(placed) > 0 && rules.MaxTempoJump > 0 {
		last := placed[len(placed)-1]
		if last.HasTempo() && candidate.HasTempo() && abs(candidate.Tempo-last.Tempo) > rules.MaxTempoJump {
			return TempoJump
		}
	}

	if rules.MinDaysSincePlayed > 0 {
		if days, ok := DaysSincePlayed(candidate.LastPlayed, now); ok && days < float64(rules.MinDaysSincePlayed) {
			return CooldownViolation
		}
	}

	return NoViolation
}

func repeatsWithin(placed []models.Track, window int, value string, field func(models.Track) string) bool {
	key := normalizeKey(value)
	if window <= 0 || key == "" {
		return false
	}
	start := max(len(placed)-window, 0)
	for _, t := range placed[start:] {
		if normalizeKey(field(t)) == key {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
