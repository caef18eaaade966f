// package profile defines taste profiles: the rules that drive one generated playlist.
package profile

import (
	"fmt"
	"strings"

	"github.com/desertthunder/daylist/internal/shared"
)

const (
	DefaultTargetLength       = 20
	DefaultScanLimit          = 10
	DefaultDominanceThreshold = 0.4
)

// ExhaustionPolicy selects what the sequence builder does when no remaining candidate
// satisfies the hard constraints.
type ExhaustionPolicy string

const (
	// PolicyStrict stops the sequence early.
	PolicyStrict ExhaustionPolicy = "strict"
	// PolicyFallback places the highest-preference remaining track regardless of constraints.
	PolicyFallback ExhaustionPolicy = "fallback"
)

// PlayCountMode enumerates the play-count filter predicates.
type PlayCountMode string

const (
	PlayCountExact         PlayCountMode = "exact"
	PlayCountNeverPlayed   PlayCountMode = "never_played"
	PlayCountRange         PlayCountMode = "range"
	PlayCountAbove         PlayCountMode = "above"
	PlayCountBelow         PlayCountMode = "below"
	PlayCountAtLeast       PlayCountMode = "at_least"
	PlayCountAtMost        PlayCountMode = "at_most"
	PlayCountTopPercent    PlayCountMode = "top_percent"
	PlayCountBottomPercent PlayCountMode = "bottom_percent"
)

// TempoRange bounds accepted tempos. A zero bound is open.
type TempoRange struct {
	Min int `json:"min_bpm,omitempty" yaml:"min_bpm,omitempty" toml:"min_bpm,omitempty"`
	Max int `json:"max_bpm,omitempty" yaml:"max_bpm,omitempty" toml:"max_bpm,omitempty"`
}

// PlayCountFilter restricts tracks by how often they have been played.
//
// Percent is expressed 0–100 and is evaluated against the whole candidate pool.
type PlayCountFilter struct {
	Mode    PlayCountMode `json:"mode" yaml:"mode" toml:"mode"`
	Value   int           `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Min     int           `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max     int           `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	Percent float64       `json:"percent,omitempty" yaml:"percent,omitempty" toml:"percent,omitempty"`
}

// QualityWeights weight each sub-score of the playlist quality score.
type QualityWeights struct {
	ArtistDiversity   float64 `json:"artist_diversity" yaml:"artist_diversity" toml:"artist_diversity"`
	TempoSmoothness   float64 `json:"bpm_transition_smoothness" yaml:"bpm_transition_smoothness" toml:"bpm_transition_smoothness"`
	GenreCoherence    float64 `json:"genre_coherence" yaml:"genre_coherence" toml:"genre_coherence"`
	PopularityBalance float64 `json:"popularity_balance" yaml:"popularity_balance" toml:"popularity_balance"`
	EraCohesion       float64 `json:"era_cohesion" yaml:"era_cohesion" toml:"era_cohesion"`
}

// Total returns the sum of all weights.
func (w QualityWeights) Total() float64 {
	return w.ArtistDiversity + w.TempoSmoothness + w.GenreCoherence + w.PopularityBalance + w.EraCohesion
}

// TransitionRules hold the soft tempo preference and the hard sequencing constraints.
type TransitionRules struct {
	MaxTempoJump         int `json:"max_bpm_jump" yaml:"max_bpm_jump" toml:"max_bpm_jump"`
	PreferredTempoChange int `json:"preferred_bpm_change" yaml:"preferred_bpm_change" toml:"preferred_bpm_change"`
	ArtistWindow         int `json:"avoid_artist_repeats_within" yaml:"avoid_artist_repeats_within" toml:"avoid_artist_repeats_within"`
	AlbumWindow          int `json:"avoid_album_repeats_within,omitempty" yaml:"avoid_album_repeats_within,omitempty" toml:"avoid_album_repeats_within,omitempty"`
	MinDaysSincePlayed   int `json:"min_days_since_last_play,omitempty" yaml:"min_days_since_last_play,omitempty" toml:"min_days_since_last_play,omitempty"`
}

// PreferenceWeights drive per-track preference scoring.
type PreferenceWeights struct {
	FavoriteBoost    float64 `json:"starred_boost" yaml:"starred_boost" toml:"starred_boost"`
	PlayCountWeight  float64 `json:"play_count_weight" yaml:"play_count_weight" toml:"play_count_weight"`
	RecencyPenalty   float64 `json:"recency_penalty_weight" yaml:"recency_penalty_weight" toml:"recency_penalty_weight"`
	RandomnessFactor float64 `json:"randomness_factor" yaml:"randomness_factor" toml:"randomness_factor"`
	DiscoveryMode    bool    `json:"discovery_mode" yaml:"discovery_mode" toml:"discovery_mode"`
}

// NamingRules control how the playlist title is derived.
type NamingRules struct {
	Static             bool    `json:"static,omitempty" yaml:"static,omitempty" toml:"static,omitempty"`
	DominanceThreshold float64 `json:"dominance_threshold" yaml:"dominance_threshold" toml:"dominance_threshold"`
	Weekday            bool    `json:"weekday" yaml:"weekday" toml:"weekday"`
	TempoMood          bool    `json:"tempo_mood" yaml:"tempo_mood" toml:"tempo_mood"`
	Era                bool    `json:"era" yaml:"era" toml:"era"`
}

// TasteProfile is a named bundle of filter, scoring, sequencing and naming rules.
type TasteProfile struct {
	Name                 string            `json:"name" yaml:"name" toml:"name"`
	AcceptedGenres       []string          `json:"acceptable_genres,omitempty" yaml:"acceptable_genres,omitempty" toml:"acceptable_genres,omitempty"`
	RejectedGenres       []string          `json:"unacceptable_genres,omitempty" yaml:"unacceptable_genres,omitempty" toml:"unacceptable_genres,omitempty"`
	Tempo                *TempoRange       `json:"bpm_thresholds,omitempty" yaml:"bpm_thresholds,omitempty" toml:"bpm_thresholds,omitempty"`
	PlayCount            *PlayCountFilter  `json:"play_count_filter,omitempty" yaml:"play_count_filter,omitempty" toml:"play_count_filter,omitempty"`
	NonSongPatterns      []string          `json:"non_song_patterns,omitempty" yaml:"non_song_patterns,omitempty" toml:"non_song_patterns,omitempty"`
	ExtraNonSongPatterns []string          `json:"extra_non_song_patterns,omitempty" yaml:"extra_non_song_patterns,omitempty" toml:"extra_non_song_patterns,omitempty"`
	Quality              QualityWeights    `json:"quality_weights" yaml:"quality_weights" toml:"quality_weights"`
	Transitions          TransitionRules   `json:"transition_rules" yaml:"transition_rules" toml:"transition_rules"`
	Preference           PreferenceWeights `json:"preference_weights" yaml:"preference_weights" toml:"preference_weights"`
	Naming               NamingRules       `json:"naming" yaml:"naming" toml:"naming"`
	TargetLength         int               `json:"target_length" yaml:"target_length" toml:"target_length"`
	ScanLimit            int               `json:"scan_limit,omitempty" yaml:"scan_limit,omitempty" toml:"scan_limit,omitempty"`
	Exhaustion           ExhaustionPolicy  `json:"exhaustion_policy,omitempty" yaml:"exhaustion_policy,omitempty" toml:"exhaustion_policy,omitempty"`
}

// Default returns a profile with neutral filters and the stock weights.
func Default() TasteProfile {
	return TasteProfile{
		Name: "daylist",
		Quality: QualityWeights{
			ArtistDiversity:   0.30,
			TempoSmoothness:   0.25,
			GenreCoherence:    0.20,
			PopularityBalance: 0.25,
			EraCohesion:       0.20,
		},
		Transitions: TransitionRules{
			MaxTempoJump:         20,
			PreferredTempoChange: 0,
			ArtistWindow:         3,
		},
		Preference: PreferenceWeights{
			FavoriteBoost:    100,
			PlayCountWeight:  20,
			RecencyPenalty:   5,
			RandomnessFactor: 0.2,
		},
		Naming: NamingRules{
			DominanceThreshold: DefaultDominanceThreshold,
			Weekday:            true,
			TempoMood:          true,
			Era:                true,
		},
		TargetLength: DefaultTargetLength,
		ScanLimit:    DefaultScanLimit,
		Exhaustion:   PolicyStrict,
	}
}

// Target returns the requested playlist length, defaulting non-positive values.
func (p TasteProfile) Target() int {
	if p.TargetLength <= 0 {
		return DefaultTargetLength
	}
	return p.TargetLength
}

// Scan returns the number of top candidates inspected per step.
func (p TasteProfile) Scan() int {
	if p.ScanLimit <= 0 {
		return DefaultScanLimit
	}
	return p.ScanLimit
}

// Policy returns the exhaustion policy, defaulting to [PolicyStrict].
func (p TasteProfile) Policy() ExhaustionPolicy {
	if p.Exhaustion == "" {
		return PolicyStrict
	}
	return p.Exhaustion
}

// Validate checks weights, windows, ranges and enumerations.
func (p TasteProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidProfile)
	}

	weights := map[string]float64{
		"quality_weights.artist_diversity":          p.Quality.ArtistDiversity,
		"quality_weights.bpm_transition_smoothness": p.Quality.TempoSmoothness,
		"quality_weights.genre_coherence":           p.Quality.GenreCoherence,
		"quality_weights.popularity_balance":        p.Quality.PopularityBalance,
		"quality_weights.era_cohesion":              p.Quality.EraCohesion,
	}
	for field, w := range weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: %s: %s must be within [0, 1], got %g", shared.ErrInvalidProfile, p.Name, field, w)
		}
	}

	if p.Preference.RandomnessFactor < 0 {
		return fmt.Errorf("%w: %s: randomness_factor must not be negative", shared.ErrInvalidProfile, p.Name)
	}

	t := p.Transitions
	if t.MaxTempoJump <= 0 {
		return fmt.Errorf("%w: %s: max_bpm_jump must be positive", shared.ErrInvalidProfile, p.Name)
	}
	if t.ArtistWindow < 0 || t.AlbumWindow < 0 || t.MinDaysSincePlayed < 0 {
		return fmt.Errorf("%w: %s: repeat windows and cooldown must not be negative", shared.ErrInvalidProfile, p.Name)
	}

	if p.Tempo != nil && p.Tempo.Min > 0 && p.Tempo.Max > 0 && p.Tempo.Min > p.Tempo.Max {
		return fmt.Errorf("%w: %s: min_bpm %d exceeds max_bpm %d", shared.ErrInvalidProfile, p.Name, p.Tempo.Min, p.Tempo.Max)
	}

	if p.PlayCount != nil {
		if err := p.PlayCount.validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", shared.ErrInvalidProfile, p.Name, err)
		}
	}

	if p.TargetLength < 0 {
		return fmt.Errorf("%w: %s: target_length must not be negative", shared.ErrInvalidProfile, p.Name)
	}

	if d := p.Naming.DominanceThreshold; d < 0 || d > 1 {
		return fmt.Errorf("%w: %s: dominance_threshold must be within [0, 1]", shared.ErrInvalidProfile, p.Name)
	}

	switch p.Policy() {
	case PolicyStrict, PolicyFallback:
	default:
		return fmt.Errorf("%w: %s: unknown exhaustion_policy %q", shared.ErrInvalidProfile, p.Name, p.Exhaustion)
	}

	return nil
}

func (f PlayCountFilter) validate() error {
	switch f.Mode {
	case PlayCountExact, PlayCountNeverPlayed, PlayCountAbove, PlayCountBelow, PlayCountAtLeast, PlayCountAtMost:
	case PlayCountRange:
		if f.Min > f.Max {
			return fmt.Errorf("play_count_filter: min %d exceeds max %d", f.Min, f.Max)
		}
	case PlayCountTopPercent, PlayCountBottomPercent:
		if f.Percent <= 0 || f.Percent > 100 {
			return fmt.Errorf("play_count_filter: percent must be within (0, 100], got %g", f.Percent)
		}
	default:
		return fmt.Errorf("play_count_filter: unknown mode %q", f.Mode)
	}
	return nil
}
