package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/daylist/internal/shared"
)

func writeProfiles(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write profiles: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("JSON array", func(t *testing.T) {
		path := writeProfiles(t, "playlists.json", `[
  {
    "name": "Morning",
    "acceptable_genres": ["jazz", "soul"],
    "bpm_thresholds": {"min_bpm": 70, "max_bpm": 110},
    "quality_weights": {"genre_coherence": 0.9},
    "target_length": 15
  },
  {
    "name": "Workout",
    "play_count_filter": {"mode": "top_percent", "percent": 25},
    "preference_weights": {"discovery_mode": true},
    "exhaustion_policy": "fallback"
  }
]`)

		profiles, err := Load(path)
		if err != nil {
			t.Fatalf("failed to load profiles: %v", err)
		}
		if len(profiles) != 2 {
			t.Fatalf("expected 2 profiles, got %d", len(profiles))
		}

		morning := profiles[0]
		if morning.Name != "Morning" || len(morning.AcceptedGenres) != 2 {
			t.Errorf("unexpected morning profile: %+v", morning)
		}
		if morning.Tempo == nil || morning.Tempo.Min != 70 || morning.Tempo.Max != 110 {
			t.Errorf("expected tempo range 70-110, got %+v", morning.Tempo)
		}
		if morning.Quality.GenreCoherence != 0.9 {
			t.Errorf("expected genre coherence 0.9, got %f", morning.Quality.GenreCoherence)
		}
		if morning.Quality.ArtistDiversity != 0.30 {
			t.Errorf("expected omitted weight to keep its default, got %f", morning.Quality.ArtistDiversity)
		}
		if morning.TargetLength != 15 {
			t.Errorf("expected target 15, got %d", morning.TargetLength)
		}

		workout := profiles[1]
		if workout.PlayCount == nil || workout.PlayCount.Mode != PlayCountTopPercent || workout.PlayCount.Percent != 25 {
			t.Errorf("unexpected play count filter: %+v", workout.PlayCount)
		}
		if !workout.Preference.DiscoveryMode || workout.Preference.FavoriteBoost != 100 {
			t.Errorf("expected discovery mode with default boost, got %+v", workout.Preference)
		}
		if workout.Policy() != PolicyFallback {
			t.Errorf("expected fallback policy, got %s", workout.Policy())
		}
		if workout.TargetLength != DefaultTargetLength {
			t.Errorf("expected default target, got %d", workout.TargetLength)
		}
	})

	t.Run("JSON wrapper object", func(t *testing.T) {
		path := writeProfiles(t, "playlists.json", `{"playlists": [{"name": "Evening"}]}`)

		profiles, err := Load(path)
		if err != nil {
			t.Fatalf("failed to load profiles: %v", err)
		}
		if len(profiles) != 1 || profiles[0].Name != "Evening" {
			t.Errorf("unexpected profiles: %+v", profiles)
		}
	})

	t.Run("YAML", func(t *testing.T) {
		path := writeProfiles(t, "playlists.yaml", `playlists:
  - name: Focus
    unacceptable_genres: [metal, punk]
    transition_rules:
      max_bpm_jump: 10
      avoid_artist_repeats_within: 5
    naming:
      static: true
  - name: Chill
    bpm_thresholds:
      max_bpm: 95
`)

		profiles, err := Load(path)
		if err != nil {
			t.Fatalf("failed to load profiles: %v", err)
		}
		if len(profiles) != 2 {
			t.Fatalf("expected 2 profiles, got %d", len(profiles))
		}

		focus := profiles[0]
		if len(focus.RejectedGenres) != 2 || focus.RejectedGenres[1] != "punk" {
			t.Errorf("unexpected rejected genres: %v", focus.RejectedGenres)
		}
		if focus.Transitions.MaxTempoJump != 10 || focus.Transitions.ArtistWindow != 5 {
			t.Errorf("unexpected transitions: %+v", focus.Transitions)
		}
		if !focus.Naming.Static {
			t.Error("expected static naming")
		}
		if profiles[1].Tempo == nil || profiles[1].Tempo.Max != 95 {
			t.Errorf("expected max tempo 95, got %+v", profiles[1].Tempo)
		}
	})

	t.Run("YAML bare list", func(t *testing.T) {
		path := writeProfiles(t, "playlists.yml", "- name: Solo\n  target_length: 8\n")

		profiles, err := Load(path)
		if err != nil {
			t.Fatalf("failed to load profiles: %v", err)
		}
		if profiles[0].TargetLength != 8 {
			t.Errorf("expected target 8, got %d", profiles[0].TargetLength)
		}
	})

	t.Run("TOML", func(t *testing.T) {
		path := writeProfiles(t, "playlists.toml", `[[playlists]]
name = "Commute"
acceptable_genres = ["indie"]

[playlists.preference_weights]
randomness_factor = 0.5

[[playlists]]
name = "Late Night"
scan_limit = 4
`)

		profiles, err := Load(path)
		if err != nil {
			t.Fatalf("failed to load profiles: %v", err)
		}
		if len(profiles) != 2 {
			t.Fatalf("expected 2 profiles, got %d", len(profiles))
		}
		if profiles[0].Preference.RandomnessFactor != 0.5 || profiles[0].Preference.PlayCountWeight != 20 {
			t.Errorf("unexpected preference weights: %+v", profiles[0].Preference)
		}
		if profiles[1].Scan() != 4 {
			t.Errorf("expected scan limit 4, got %d", profiles[1].Scan())
		}
	})

	t.Run("Errors", func(t *testing.T) {
		tc := []struct {
			name    string
			file    string
			content string
			want    error
		}{
			{name: "malformed JSON", file: "p.json", content: `[{"name": }]`, want: shared.ErrInvalidConfig},
			{name: "malformed YAML", file: "p.yaml", content: "playlists: [\n", want: shared.ErrInvalidConfig},
			{name: "YAML without playlists", file: "p.yaml", content: "profiles: []\n", want: shared.ErrInvalidConfig},
			{name: "malformed TOML", file: "p.toml", content: "[[playlists]\n", want: shared.ErrInvalidConfig},
			{name: "unsupported extension", file: "p.ini", content: "name=x", want: shared.ErrInvalidConfig},
			{name: "empty list", file: "p.json", content: `[]`, want: shared.ErrNoProfiles},
			{name: "invalid profile", file: "p.json", content: `[{"name": "X", "target_length": -1}]`, want: shared.ErrInvalidProfile},
			{name: "duplicate names", file: "p.json", content: `[{"name": "Daily"}, {"name": "daily"}]`, want: shared.ErrInvalidProfile},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Load(writeProfiles(t, tt.file, tt.content))
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}

		t.Run("missing file", func(t *testing.T) {
			_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})
	})
}

func TestFind(t *testing.T) {
	profiles := []TasteProfile{{Name: "Morning"}, {Name: "Evening"}}

	if p, ok := Find(profiles, "evening"); !ok || p.Name != "Evening" {
		t.Errorf("expected to find Evening, got %+v (%v)", p, ok)
	}
	if _, ok := Find(profiles, "Midnight"); ok {
		t.Error("expected Midnight to be missing")
	}
}
