package models

import "time"

// PickReason records why the sequence builder placed a track.
type PickReason string

const (
	PickBest     PickReason = "best_candidate"
	PickFallback PickReason = "fallback"
)

// PlaylistTrack is a placed track with the diagnostics of the step that placed it.
type PlaylistTrack struct {
	Track        Track      `json:"track"`
	Transition   float64    `json:"transition_score"`
	Contribution float64    `json:"quality_contribution"`
	Reason       PickReason `json:"reason"`
}

// TempoRange is the inclusive span of known tempos.
type TempoRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// EraSpan is the inclusive span of known release years.
type EraSpan struct {
	Earliest int `json:"earliest"`
	Latest   int `json:"latest"`
}

// Years returns the number of years between the earliest and latest release.
func (e EraSpan) Years() int { return e.Latest - e.Earliest }

// PlaylistMetrics holds aggregate statistics computed over a sequence of tracks.
type PlaylistMetrics struct {
	TotalDuration     int            `json:"total_duration"` // Seconds
	AverageTempo      float64        `json:"average_bpm"`
	TempoRange        *TempoRange    `json:"bpm_range,omitempty"`
	GenreDistribution map[string]int `json:"genre_distribution"`
	ArtistCount       int            `json:"artist_count"`
	EraSpan           *EraSpan       `json:"era_span,omitempty"`
	AveragePlayCount  float64        `json:"avg_popularity"`
	TrackCount        int            `json:"total_songs"`
}

// Playlist is the result of a generation run for one taste profile.
type Playlist struct {
	Name        string          `json:"name"`
	Profile     string          `json:"profile"`
	Tracks      []PlaylistTrack `json:"tracks"`
	Quality     float64         `json:"quality_score"`
	Metrics     PlaylistMetrics `json:"metrics"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// TrackIDs returns the placed track ids in order, ready for publishing.
func (p Playlist) TrackIDs() []string {
	ids := make([]string, len(p.Tracks))
	for i, pt := range p.Tracks {
		ids[i] = pt.Track.ID
	}
	return ids
}

// Len returns the number of placed tracks.
func (p Playlist) Len() int { return len(p.Tracks) }

// ScoredCandidate pairs a track with its preference score.
type ScoredCandidate struct {
	Track Track
	Score float64
}

// LibraryPlaylist is playlist metadata as reported by the music server.
type LibraryPlaylist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"song_count"`
	Duration   int    `json:"duration"`
	Owner      string `json:"owner,omitempty"`
	Public     bool   `json:"public"`
}
