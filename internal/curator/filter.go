package curator

import (
	"math"
	"slices"
	"strings"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
)

const (
	minSongSeconds         = 60
	maxSongSeconds         = 600
	shortInstrumentalLimit = 90
)

// DefaultNonSongPatterns lists title words and phrases that mark tracks which are not
// songs. Matching is case-insensitive and on whole words or phrases.
var DefaultNonSongPatterns = []string{
	// interludes and bookends
	"interlude", "intro", "outro", "prelude", "postlude", "transition", "segue",
	// sketches and fragments
	"skit", "sketch", "fragment", "snippet",
	// spoken word
	"monologue", "dialogue", "speech", "interview", "conversation", "discussion",
	"spoken word", "commentary",
	// ambient and nature recordings
	"soundscape", "field recording", "nature sounds", "rain sounds", "ocean sounds",
	"white noise", "ambience",
	// meditation
	"meditation", "mantra", "prayer", "chant",
	// silence, tests and filler
	"silence", "hidden track", "intermission", "announcement", "commercial",
	"advertisement", "soundcheck", "sound check", "test", "testing", "tuning",
	// abbreviations
	"int.", "intro.", "outro.", "interl.", "untitled",
}

var nonSongMarkers = []string{
	"(interlude)", "(intro)", "(outro)", "(skit)", "(sketch)", "(spoken word)",
}

const instrumentalMarker = "(instrumental)"

// IsNonSong reports whether the track looks like an interlude, skit, spoken word piece,
// ambient filler or other non-song by its title and duration.
func IsNonSong(t models.Track, patterns []string) bool {
	if t.HasDuration() && (t.Duration < minSongSeconds || t.Duration > maxSongSeconds) {
		return true
	}

	title := strings.ToLower(strings.TrimSpace(t.Title))
	if len([]rune(title)) <= 2 || isNumericTitle(title) || isTrackNumberTitle(title) {
		return true
	}

	for _, m := range nonSongMarkers {
		if strings.Contains(title, m) {
			return true
		}
	}
	if strings.Contains(title, instrumentalMarker) && t.HasDuration() && t.Duration < shortInstrumentalLimit {
		return true
	}

	for _, p := range patterns {
		if matchesPattern(title, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// FilterNonSongs splits tracks into songs and the number of rejected non-songs.
func FilterNonSongs(tracks []models.Track, patterns []string) ([]models.Track, int) {
	songs := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if !IsNonSong(t, patterns) {
			songs = append(songs, t)
		}
	}
	return songs, len(tracks) - len(songs)
}

func matchesPattern(title, p string) bool {
	if p == "" {
		return false
	}
	if title == p ||
		strings.HasPrefix(title, p+" ") ||
		strings.HasPrefix(title, p+":") ||
		strings.HasSuffix(title, " "+p) ||
		strings.Contains(title, " "+p+" ") {
		return true
	}
	for _, w := range strings.Fields(title) {
		if w == p || strings.Trim(w, `.,;:!?"'()[]-`) == p {
			return true
		}
	}
	return false
}

func isNumericTitle(title string) bool {
	for _, r := range title {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return false
		}
	}
	return true
}

func isTrackNumberTitle(title string) bool {
	rest, ok := strings.CutPrefix(title, "track ")
	if !ok {
		return false
	}
	rest = strings.TrimSpace(rest)
	return rest != "" && strings.Trim(rest, "0123456789 ") == ""
}

// Filter decides track eligibility for one taste profile.
//
// Percentile play-count thresholds are computed once over the full pool passed to
// [NewFilter], so the same track always gets the same answer.
type Filter struct {
	profile   profile.TasteProfile
	patterns  []string
	accept    []string
	reject    []string
	threshold int
}

// NewFilter prepares a filter for p over the candidate pool.
func NewFilter(p profile.TasteProfile, pool []models.Track) *Filter {
	patterns := DefaultNonSongPatterns
	if len(p.NonSongPatterns) > 0 {
		patterns = p.NonSongPatterns
	}
	if len(p.ExtraNonSongPatterns) > 0 {
		patterns = append(slices.Clone(patterns), p.ExtraNonSongPatterns...)
	}

	f := &Filter{
		profile:  p,
		patterns: patterns,
		accept:   lowerAll(p.AcceptedGenres),
		reject:   lowerAll(p.RejectedGenres),
	}
	if pc := p.PlayCount; pc != nil {
		switch pc.Mode {
		case profile.PlayCountTopPercent, profile.PlayCountBottomPercent:
			f.threshold = percentileThreshold(pool, pc.Mode, pc.Percent)
		}
	}
	return f
}

// IsEligible reports whether track passes every check of profile p against pool.
func IsEligible(t models.Track, p profile.TasteProfile, pool []models.Track) bool {
	return NewFilter(p, pool).Accepts(t)
}

// Accepts reports whether the track passes all checks.
func (f *Filter) Accepts(t models.Track) bool {
	if IsNonSong(t, f.patterns) {
		return false
	}
	if !f.acceptsGenres(t) {
		return false
	}
	if !f.acceptsTempo(t) {
		return false
	}
	return f.acceptsPlayCount(t)
}

// Apply returns the tracks that pass, preserving order.
func (f *Filter) Apply(tracks []models.Track) []models.Track {
	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if f.Accepts(t) {
			out = append(out, t)
		}
	}
	return out
}

func (f *Filter) acceptsGenres(t models.Track) bool {
	if len(f.accept) == 0 && len(f.reject) == 0 {
		return true
	}
	tags := t.GenreTags()
	for _, tag := range tags {
		if containsAny(tag, f.reject) {
			return false
		}
	}
	if len(f.accept) == 0 {
		return true
	}
	for _, tag := range tags {
		if containsAny(tag, f.accept) {
			return true
		}
	}
	return false
}

func (f *Filter) acceptsTempo(t models.Track) bool {
	r := f.profile.Tempo
	if r == nil || !t.HasTempo() {
		return true
	}
	if r.Min > 0 && t.Tempo < r.Min {
		return false
	}
	if r.Max > 0 && t.Tempo > r.Max {
		return false
	}
	return true
}

func (f *Filter) acceptsPlayCount(t models.Track) bool {
	pc := f.profile.PlayCount
	if pc == nil {
		return true
	}
	plays := t.Plays()
	switch pc.Mode {
	case profile.PlayCountExact:
		return plays == pc.Value
	case profile.PlayCountNeverPlayed:
		return plays == 0
	case profile.PlayCountRange:
		return plays >= pc.Min && plays <= pc.Max
	case profile.PlayCountAbove:
		return plays > pc.Value
	case profile.PlayCountBelow:
		return plays < pc.Value
	case profile.PlayCountAtLeast:
		return plays >= pc.Value
	case profile.PlayCountAtMost:
		return plays <= pc.Value
	case profile.PlayCountTopPercent:
		return plays >= f.threshold
	case profile.PlayCountBottomPercent:
		return plays <= f.threshold
	default:
		return true
	}
}

// percentileThreshold sorts the pool's play counts ascending and indexes at
// percent*N (bottom) or (1-percent)*N (top), clamped to the slice.
func percentileThreshold(pool []models.Track, mode profile.PlayCountMode, percent float64) int {
	if len(pool) == 0 {
		return 0
	}
	counts := make([]int, len(pool))
	for i, t := range pool {
		counts[i] = t.Plays()
	}
	slices.Sort(counts)

	p := percent / 100
	var idx int
	if mode == profile.PlayCountTopPercent {
		idx = int(math.Floor((1 - p) * float64(len(counts))))
	} else {
		idx = int(math.Floor(p * float64(len(counts))))
	}
	idx = max(0, min(idx, len(counts)-1))
	return counts[idx]
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
