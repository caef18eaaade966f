package models

import (
	"slices"
	"strings"
)

// Track is a single song from the library with the metadata the engine reads.
//
// Zero values mean "unknown" for Tempo, Duration and Year. PlayCount is a pointer
// because an absent count and a count of zero are scored differently.
type Track struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Album      string   `json:"album,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Tempo      int      `json:"bpm,omitempty"`      // Beats per minute
	Duration   int      `json:"duration,omitempty"` // Duration in seconds
	Year       int      `json:"year,omitempty"`
	PlayCount  *int     `json:"play_count,omitempty"`
	LastPlayed string   `json:"last_played,omitempty"` // Raw timestamp as reported by the server
	Favorite   bool     `json:"favorite,omitempty"`
}

// Plays returns a pointer to n for building tracks with a known play count.
func Plays(n int) *int {
	return &n
}

// HasTempo reports whether the tempo is known.
func (t Track) HasTempo() bool { return t.Tempo > 0 }

// HasDuration reports whether the duration is known.
func (t Track) HasDuration() bool { return t.Duration > 0 }

// HasYear reports whether the release year is known.
func (t Track) HasYear() bool { return t.Year > 0 }

// HasPlayCount reports whether the play count is known.
func (t Track) HasPlayCount() bool { return t.PlayCount != nil }

// Plays returns the play count, treating an absent count as zero.
func (t Track) Plays() int {
	if t.PlayCount == nil {
		return 0
	}
	return *t.PlayCount
}

// GenreTags returns the track's genre tags lowercased, trimmed, deduplicated and sorted.
func (t Track) GenreTags() []string {
	tags := make([]string, 0, len(t.Genres))
	for _, g := range t.Genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			tags = append(tags, g)
		}
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}
