package curator

import (
	"math"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
)

// TransitionScore rates how well candidate follows the sequence so far, in [0, 1].
// It is the mean of a tempo-direction score and a genre-compatibility score.
// The first track of a sequence scores 0.5.
func TransitionScore(placed []models.Track, candidate models.Track, p profile.TasteProfile) float64 {
	if len(placed) == 0 {
		return neutralScore
	}
	last := placed[len(placed)-1]
	tempo := TempoDirectionScore(last, candidate, p.Transitions)
	genre := GenreCompatibility(placed, candidate, p.Quality.GenreCoherence)
	return (tempo + genre) / 2
}

// TempoDirectionScore compares the tempo change from last to candidate with the
// preferred signed change.
func TempoDirectionScore(last, candidate models.Track, rules profile.TransitionRules) float64 {
	if !last.HasTempo() || !candidate.HasTempo() {
		return neutralScore
	}

	actual := float64(candidate.Tempo - last.Tempo)
	ideal := float64(rules.PreferredTempoChange)
	maxJump := float64(max(rules.MaxTempoJump, 1))

	switch {
	case actual == ideal:
		return 1
	case actual*ideal > 0:
		closeness := clamp01(1 - math.Abs(actual-ideal)/maxJump)
		return 0.5 + math.Min(closeness*0.4, 0.4)
	case actual*ideal < 0:
		return 0.4 - math.Min(0.3*math.Abs(actual)/maxJump, 0.3)
	default:
		return 0.4
	}
}

// GenreCompatibility scores the candidate's genres against the histogram of the
// sequence so far, scaled by how much the profile values genre coherence.
func GenreCompatibility(placed []models.Track, candidate models.Track, coherenceWeight float64) float64 {
	tags := candidate.GenreTags()
	if len(tags) == 0 {
		return neutralScore
	}

	hist := make(map[string]int)
	for _, t := range placed {
		for _, g := range t.GenreTags() {
			hist[g]++
		}
	}
	if len(hist) == 0 {
		return neutralScore
	}

	best := 0
	for _, g := range tags {
		best = max(best, hist[g])
	}
	if best == 0 {
		return 0.9 - 0.8*coherenceWeight
	}

	ratio := math.Min(float64(best)/float64(len(placed)), 1)
	return 0.5 + 0.5*ratio*coherenceWeight
}
