package curator

import (
	"time"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
)

// Report summarizes one generation run.
type Report struct {
	Playlist models.Playlist
	Pool     int // Tracks offered to the filter
	Eligible int // Tracks that passed the filter
}

// Generate filters pool for p, ranks the survivors, builds the sequence, then scores and
// names the result. It never fails: an insufficient pool yields a short or empty playlist.
func Generate(pool []models.Track, p profile.TasteProfile, now time.Time) models.Playlist {
	return GenerateReport(pool, p, now).Playlist
}

// GenerateReport is [Generate] with filter statistics.
func GenerateReport(pool []models.Track, p profile.TasteProfile, now time.Time) Report {
	eligible := NewFilter(p, pool).Apply(pool)
	ranked := Rank(eligible, p.Preference, now)
	sequence := NewBuilder(p, now).Build(ranked)

	tracks := make([]models.Track, len(sequence))
	for i, pt := range sequence {
		tracks[i] = pt.Track
	}
	metrics := ComputeMetrics(tracks)

	return Report{
		Playlist: models.Playlist{
			Name:        Name(p.Name, metrics, p.Naming, now),
			Profile:     p.Name,
			Tracks:      sequence,
			Quality:     QualityScore(tracks, metrics, p.Quality),
			Metrics:     metrics,
			GeneratedAt: now,
		},
		Pool:     len(pool),
		Eligible: len(eligible),
	}
}
