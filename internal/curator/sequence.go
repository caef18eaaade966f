package curator

import (
	"slices"
	"time"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
)

const (
	qualityShare    = 0.7
	transitionShare = 0.3
)

// Builder assembles a playlist greedily from a preference-ordered candidate pool.
//
// Each step inspects the top candidates still remaining, skips those that break a hard
// constraint, and places the one with the highest combined score:
//
//	combined = quality(placed + candidate)*0.7 + transition(placed, candidate)*0.3
//
// When none of the top candidates is eligible the scan widens to the whole remaining
// pool. If that also finds nothing, the profile's [profile.ExhaustionPolicy] decides:
// strict stops the sequence, fallback places the highest-preference remaining track.
type Builder struct {
	profile profile.TasteProfile
	now     time.Time
}

// NewBuilder returns a Builder for p evaluated at now.
func NewBuilder(p profile.TasteProfile, now time.Time) *Builder {
	return &Builder{profile: p, now: now}
}

type pick struct {
	index      int
	transition float64
	combined   float64
}

// Build returns the placed tracks in playlist order. It never returns more than the
// profile's target length or more than len(ranked) tracks.
func (b *Builder) Build(ranked []models.ScoredCandidate) []models.PlaylistTrack {
	target := b.profile.Target()
	scan := b.profile.Scan()

	remaining := slices.Clone(ranked)
	placed := make([]models.Track, 0, target)
	out := make([]models.PlaylistTrack, 0, min(target, len(ranked)))

	limit := target + len(ranked) + 1
	for step := 0; len(out) < target && len(remaining) > 0 && step < limit; step++ {
		current := b.quality(placed)

		best, ok := b.best(placed, remaining[:min(scan, len(remaining))])
		if !ok && scan < len(remaining) {
			best, ok = b.best(placed, remaining)
		}

		reason := models.PickBest
		if !ok {
			if b.profile.Policy() != profile.PolicyFallback {
				break
			}
			best = b.evaluate(placed, remaining, 0)
			reason = models.PickFallback
		}

		chosen := remaining[best.index].Track
		remaining = slices.Delete(remaining, best.index, best.index+1)
		placed = append(placed, chosen)
		out = append(out, models.PlaylistTrack{
			Track:        chosen,
			Transition:   best.transition,
			Contribution: best.combined - current,
			Reason:       reason,
		})
	}

	return out
}

// best returns the highest combined score among candidates that pass every hard constraint.
func (b *Builder) best(placed []models.Track, candidates []models.ScoredCandidate) (pick, bool) {
	var (
		found  bool
		winner pick
	)
	for i, c := range candidates {
		if CheckConstraints(placed, c.Track, b.profile.Transitions, b.now) != NoViolation {
			continue
		}
		p := b.evaluate(placed, candidates, i)
		if !found || p.combined > winner.combined {
			winner, found = p, true
		}
	}
	return winner, found
}

func (b *Builder) evaluate(placed []models.Track, candidates []models.ScoredCandidate, i int) pick {
	candidate := candidates[i].Track
	transition := TransitionScore(placed, candidate, b.profile)

	trial := append(slices.Clip(placed), candidate)
	hypothetical := b.quality(trial)

	return pick{
		index:      i,
		transition: transition,
		combined:   hypothetical*qualityShare + transition*transitionShare,
	}
}

func (b *Builder) quality(tracks []models.Track) float64 {
	if len(tracks) == 0 {
		return 0
	}
	return QualityScore(tracks, ComputeMetrics(tracks), b.profile.Quality)
}
