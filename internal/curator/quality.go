package curator

import (
	"math"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
)

const neutralScore = 0.5

// QualityScore rates a whole track sequence in [0, 1] as the weighted mean of five
// sub-scores. Empty input scores 0; all-zero weights score 0.5.
func QualityScore(tracks []models.Track, m models.PlaylistMetrics, w profile.QualityWeights) float64 {
	if len(tracks) == 0 {
		return 0
	}

	total := w.Total()
	if total <= 0 {
		return neutralScore
	}

	sum := ArtistDiversity(m)*w.ArtistDiversity +
		TempoSmoothness(tracks)*w.TempoSmoothness +
		GenreCoherence(m)*w.GenreCoherence +
		PopularityBalance(tracks)*w.PopularityBalance +
		EraCohesion(m)*w.EraCohesion

	return clamp01(sum / total)
}

// ArtistDiversity is the share of distinct artists.
func ArtistDiversity(m models.PlaylistMetrics) float64 {
	if m.TrackCount <= 1 {
		return 1
	}
	return float64(m.ArtistCount) / float64(m.TrackCount)
}

// GenreCoherence is one minus the normalized Shannon entropy of the genre histogram.
// A single genre scores 1; no genre data is neutral.
func GenreCoherence(m models.PlaylistMetrics) float64 {
	k := len(m.GenreDistribution)
	if k == 0 || m.TrackCount == 0 {
		return neutralScore
	}
	if k == 1 {
		return 1
	}

	var entropy float64
	for _, c := range m.GenreDistribution {
		p := float64(c) / float64(m.TrackCount)
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return clamp01(1 - entropy/math.Log2(float64(k)))
}

// EraCohesion decreases piecewise as the release-year span widens.
func EraCohesion(m models.PlaylistMetrics) float64 {
	if m.EraSpan == nil {
		return neutralScore
	}
	span := float64(m.EraSpan.Years())
	switch {
	case span <= 2:
		return 1
	case span <= 10:
		return 0.8 - (span-2)/8*0.3
	case span <= 20:
		return 0.5 - (span-10)/10*0.3
	default:
		return math.Max(0.2-(span-20)/50*0.2, 0)
	}
}

// PopularityBalance rewards a moderate spread of play counts, measured by the
// coefficient of variation of the known counts.
func PopularityBalance(tracks []models.Track) float64 {
	counts := make([]float64, 0, len(tracks))
	for _, t := range tracks {
		if t.HasPlayCount() {
			counts = append(counts, float64(t.Plays()))
		}
	}
	if len(counts) < 2 {
		return neutralScore
	}

	var sum float64
	for _, c := range counts {
		sum += c
	}
	mean := sum / float64(len(counts))

	var variance float64
	for _, c := range counts {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(len(counts))

	var cv float64
	if mean > 0 {
		cv = math.Sqrt(variance) / mean
	}

	switch {
	case cv <= 0.3:
		return cv / 0.3 * 0.5
	case cv <= 1.0:
		return 0.5 + (cv-0.3)/0.7*0.5
	default:
		return clamp01(2 - cv)
	}
}

// TempoSmoothness averages a smoothness curve over adjacent pairs whose tempos are both known.
func TempoSmoothness(tracks []models.Track) float64 {
	var (
		sum   float64
		pairs int
	)
	for i := 1; i < len(tracks); i++ {
		prev, next := tracks[i-1], tracks[i]
		if !prev.HasTempo() || !next.HasTempo() {
			continue
		}
		sum += stepSmoothness(math.Abs(float64(next.Tempo - prev.Tempo)))
		pairs++
	}
	if pairs == 0 {
		return neutralScore
	}
	return sum / float64(pairs)
}

func stepSmoothness(diff float64) float64 {
	switch {
	case diff <= 5:
		return 1
	case diff <= 15:
		return 1 - (diff-5)/10*0.3
	case diff <= 30:
		return 0.7 - (diff-15)/15*0.4
	default:
		return math.Max(0.3-(diff-30)/70*0.3, 0)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
