package curator

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
)

const (
	discoveryUnplayedBonus = 50.0
	discoveryUnknownBonus  = 25.0
	discoveryLowPlayBase   = 30.0
	discoveryLowPlayStep   = 5.0
	discoveryLowPlayLimit  = 2
	discoveryDecayBase     = 10.0
	discoveryDecayRate     = 2.0

	recencyDays          = 7.0
	discoveryRecencyDays = 3.0
	discoveryRecencyRate = 2.0

	jitterModulus          = 10
	discoveryJitterModulus = 20
)

// PreferenceScore scores a track on its own, without playlist context.
// Only the relative order of scores is meaningful.
func PreferenceScore(t models.Track, w profile.PreferenceWeights, now time.Time) float64 {
	var score float64

	if t.Favorite {
		score += w.FavoriteBoost
	}

	if w.DiscoveryMode {
		score += discoveryBonus(t)
	} else if t.HasPlayCount() {
		score += math.Log10(float64(max(t.Plays(), 1))) * w.PlayCountWeight
	}

	score -= recencyPenalty(t, w, now)
	score += Jitter(t.ID, w.DiscoveryMode) * w.RandomnessFactor

	return score
}

// discoveryBonus favors unplayed and rarely played tracks, decaying logarithmically.
func discoveryBonus(t models.Track) float64 {
	if !t.HasPlayCount() {
		return discoveryUnknownBonus
	}
	plays := t.Plays()
	switch {
	case plays == 0:
		return discoveryUnplayedBonus
	case plays <= discoveryLowPlayLimit:
		return discoveryLowPlayBase - float64(plays)*discoveryLowPlayStep
	default:
		return discoveryDecayBase - min(math.Log10(float64(plays)), 10)*discoveryDecayRate
	}
}

func recencyPenalty(t models.Track, w profile.PreferenceWeights, now time.Time) float64 {
	days, ok := DaysSincePlayed(t.LastPlayed, now)
	if !ok {
		return 0
	}

	threshold, rate := recencyDays, w.RecencyPenalty
	if w.DiscoveryMode {
		threshold, rate = discoveryRecencyDays, discoveryRecencyRate
	}
	if days >= threshold {
		return 0
	}
	return (threshold - days) * rate
}

// Jitter returns a stable per-id offset in [0, M) used to break ties between
// otherwise equal tracks. M is wider in discovery mode.
func Jitter(id string, discovery bool) float64 {
	m := uint64(jitterModulus)
	if discovery {
		m = discoveryJitterModulus
	}
	return float64(xxhash.Sum64String(id) % m)
}

// Rank scores every track and sorts them by descending preference.
// Ties are broken by track id so the order is reproducible.
func Rank(tracks []models.Track, w profile.PreferenceWeights, now time.Time) []models.ScoredCandidate {
	ranked := make([]models.ScoredCandidate, len(tracks))
	for i, t := range tracks {
		ranked[i] = models.ScoredCandidate{Track: t, Score: PreferenceScore(t, w, now)}
	}
	slices.SortStableFunc(ranked, func(a, b models.ScoredCandidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Track.ID, b.Track.ID)
	})
	return ranked
}
