package curator

import (
	"testing"
	"time"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
	tu "github.com/desertthunder/daylist/internal/testing"
)

func TestCheckConstraints(t *testing.T) {
	rules := profile.TransitionRules{MaxTempoJump: 20, ArtistWindow: 3}
	placed := []models.Track{
		tu.NewTrack("1", "One", "Alpha"),
		tu.NewTrack("2", "Two", "Beta"),
		tu.NewTrack("3", "Three", "Gamma"),
		tu.NewTrack("4", "Four", "Delta"),
	}

	t.Run("Artist Window", func(t *testing.T) {
		tc := []struct {
			name   string
			artist string
			window int
			want   Violation
		}{
			{name: "inside window", artist: "Gamma", window: 3, want: ArtistRepeat},
			{name: "case and spacing ignored", artist: "  gAMMA ", window: 3, want: ArtistRepeat},
			{name: "outside window", artist: "Alpha", window: 3, want: NoViolation},
			{name: "wider window", artist: "Alpha", window: 4, want: ArtistRepeat},
			{name: "disabled", artist: "Delta", window: 0, want: NoViolation},
			{name: "empty artist never repeats", artist: "", window: 3, want: NoViolation},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				r := rules
				r.ArtistWindow = tt.window
				cand := tu.NewTrack("x", "Candidate", tt.artist)
				cand.Album = "Other"
				if got := CheckConstraints(placed, cand, r, tu.Now); got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
			})
		}
	})

	t.Run("Album Window", func(t *testing.T) {
		r := rules
		r.AlbumWindow = 2
		cand := tu.NewTrack("x", "Candidate", "Omega")
		cand.Album = "delta lp"

		if got := CheckConstraints(placed, cand, r, tu.Now); got != AlbumRepeat {
			t.Errorf("expected album repeat, got %q", got)
		}

		cand.Album = "Alpha LP"
		if got := CheckConstraints(placed, cand, r, tu.Now); got != NoViolation {
			t.Errorf("expected album outside window to pass, got %q", got)
		}
	})

	t.Run("Tempo Jump", func(t *testing.T) {
		tc := []struct {
			name  string
			tempo int
			want  Violation
		}{
			{name: "at the limit", tempo: 140, want: NoViolation},
			{name: "over the limit", tempo: 141, want: TempoJump},
			{name: "downward over the limit", tempo: 99, want: TempoJump},
			{name: "unknown tempo", tempo: 0, want: NoViolation},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				cand := tu.NewTrack("x", "Candidate", "Omega")
				cand.Tempo = tt.tempo
				if got := CheckConstraints(placed, cand, rules, tu.Now); got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
			})
		}

		t.Run("first track is never a jump", func(t *testing.T) {
			cand := tu.NewTrack("x", "Candidate", "Omega")
			cand.Tempo = 200
			if got := CheckConstraints(nil, cand, rules, tu.Now); got != NoViolation {
				t.Errorf("expected no violation, got %q", got)
			}
		})
	})

	t.Run("Cooldown", func(t *testing.T) {
		r := rules
		r.MinDaysSincePlayed = 3

		tc := []struct {
			name   string
			played string
			want   Violation
		}{
			{name: "played yesterday", played: tu.Now.Add(-24 * time.Hour).Format(time.RFC3339), want: CooldownViolation},
			{name: "played exactly at the limit", played: tu.Now.Add(-72 * time.Hour).Format(time.RFC3339), want: NoViolation},
			{name: "never played", played: "", want: NoViolation},
			{name: "unparsable", played: "garbage", want: CooldownViolation},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				cand := tu.NewTrack("x", "Candidate", "Omega")
				cand.LastPlayed = tt.played
				if got := CheckConstraints(placed, cand, r, tu.Now); got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
			})
		}
	})

	t.Run("artist is checked before tempo", func(t *testing.T) {
		cand := tu.NewTrack("x", "Candidate", "Delta")
		cand.Tempo = 200
		if got := CheckConstraints(placed, cand, rules, tu.Now); got != ArtistRepeat {
			t.Errorf("expected artist repeat, got %q", got)
		}
	})
}
