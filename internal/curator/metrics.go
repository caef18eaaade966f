package curator

import (
	"strings"

	"github.com/desertthunder/daylist/internal/models"
)

// ComputeMetrics aggregates a track set in one pass. Empty input yields zero values
// with no tempo range and no era span.
func ComputeMetrics(tracks []models.Track) models.PlaylistMetrics {
	m := models.PlaylistMetrics{
		GenreDistribution: make(map[string]int),
		TrackCount:        len(tracks),
	}
	if len(tracks) == 0 {
		return m
	}

	var (
		tempoSum   int
		tempoCount int
		playSum    int
		artists    = make(map[string]struct{}, len(tracks))
	)

	for _, t := range tracks {
		m.TotalDuration += t.Duration

		if t.HasTempo() {
			tempoSum += t.Tempo
			tempoCount++
			if m.TempoRange == nil {
				m.TempoRange = &models.TempoRange{Min: t.Tempo, Max: t.Tempo}
			} else {
				m.TempoRange.Min = min(m.TempoRange.Min, t.Tempo)
				m.TempoRange.Max = max(m.TempoRange.Max, t.Tempo)
			}
		}

		for _, g := range t.GenreTags() {
			m.GenreDistribution[g]++
		}

		artists[normalizeKey(t.Artist)] = struct{}{}

		if t.HasYear() {
			if m.EraSpan == nil {
				m.EraSpan = &models.EraSpan{Earliest: t.Year, Latest: t.Year}
			} else {
				m.EraSpan.Earliest = min(m.EraSpan.Earliest, t.Year)
				m.EraSpan.Latest = max(m.EraSpan.Latest, t.Year)
			}
		}

		playSum += t.Plays()
	}

	if tempoCount > 0 {
		m.AverageTempo = float64(tempoSum) / float64(tempoCount)
	}
	m.ArtistCount = len(artists)
	m.AveragePlayCount = float64(playSum) / float64(len(tracks))

	return m
}

// DominantGenre returns the most frequent genre and its share of the track count.
// Ties resolve to the alphabetically first genre.
func DominantGenre(m models.PlaylistMetrics) (string, float64) {
	if m.TrackCount == 0 {
		return "", 0
	}
	var best string
	var bestCount int
	for g, c := range m.GenreDistribution {
		if c > bestCount || (c == bestCount && g < best) {
			best, bestCount = g, c
		}
	}
	return best, float64(bestCount) / float64(m.TrackCount)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
