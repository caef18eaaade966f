package curator

import (
	"testing"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
	tu "github.com/desertthunder/daylist/internal/testing"
)

func withTempos(tempos ...int) []models.Track {
	tracks := make([]models.Track, len(tempos))
	for i, bpm := range tempos {
		tracks[i] = tu.NewTrack(string(rune('a'+i)), "Song", "A")
		tracks[i].Tempo = bpm
	}
	return tracks
}

func withPlays(plays ...int) []models.Track {
	tracks := make([]models.Track, len(plays))
	for i, n := range plays {
		tracks[i] = tu.NewTrack(string(rune('a'+i)), "Song", "A")
		tracks[i].PlayCount = models.Plays(n)
	}
	return tracks
}

func TestQualityScore(t *testing.T) {
	w := profile.Default().Quality

	t.Run("empty playlist scores zero", func(t *testing.T) {
		if got := QualityScore(nil, ComputeMetrics(nil), w); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("zero weights are neutral", func(t *testing.T) {
		tracks := tu.DiverseTracks()
		if got := QualityScore(tracks, ComputeMetrics(tracks), profile.QualityWeights{}); got != 0.5 {
			t.Errorf("expected 0.5, got %f", got)
		}
	})

	t.Run("stays within bounds", func(t *testing.T) {
		tracks := tu.DiverseTracks()
		for n := 1; n <= len(tracks); n++ {
			got := QualityScore(tracks[:n], ComputeMetrics(tracks[:n]), w)
			if got < 0 || got > 1 {
				t.Fatalf("quality for %d tracks out of range: %f", n, got)
			}
		}
	})

	t.Run("single weight isolates its sub-score", func(t *testing.T) {
		tracks := []models.Track{
			tu.NewTrack("1", "One", "A"),
			tu.NewTrack("2", "Two", "A"),
			tu.NewTrack("3", "Three", "B"),
			tu.NewTrack("4", "Four", "C"),
		}
		got := QualityScore(tracks, ComputeMetrics(tracks), profile.QualityWeights{ArtistDiversity: 0.3})
		if !approx(got, 0.75) {
			t.Errorf("expected 0.75, got %f", got)
		}
	})
}

func TestArtistDiversity(t *testing.T) {
	tc := []struct {
		name    string
		artists []string
		want    float64
	}{
		{name: "all distinct", artists: []string{"A", "B", "C"}, want: 1},
		{name: "one repeat", artists: []string{"A", "A", "B", "C"}, want: 0.75},
		{name: "single artist", artists: []string{"A", "a", "A", "A"}, want: 0.25},
		{name: "single track", artists: []string{"A"}, want: 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			tracks := make([]models.Track, len(tt.artists))
			for i, a := range tt.artists {
				tracks[i] = tu.NewTrack(string(rune('a'+i)), "Song", a)
			}
			if got := ArtistDiversity(ComputeMetrics(tracks)); !approx(got, tt.want) {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestGenreCoherence(t *testing.T) {
	genres := func(gs ...string) models.PlaylistMetrics {
		tracks := make([]models.Track, len(gs))
		for i, g := range gs {
			tracks[i] = tu.NewTrack(string(rune('a'+i)), "Song", "A", g)
		}
		return ComputeMetrics(tracks)
	}

	tc := []struct {
		name string
		m    models.PlaylistMetrics
		want float64
	}{
		{name: "single genre", m: genres("Rock", "Rock", "Rock"), want: 1},
		{name: "even split", m: genres("Rock", "Pop", "Rock", "Pop"), want: 0},
		{name: "three to one", m: genres("Rock", "Rock", "Rock", "Pop"), want: 0.188722},
		{name: "no genres", m: ComputeMetrics(withTempos(100, 110)), want: 0.5},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenreCoherence(tt.m); !approx(got, tt.want) {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestEraCohesion(t *testing.T) {
	tc := []struct {
		span models.EraSpan
		want float64
	}{
		{span: models.EraSpan{Earliest: 2020, Latest: 2020}, want: 1},
		{span: models.EraSpan{Earliest: 2018, Latest: 2020}, want: 1},
		{span: models.EraSpan{Earliest: 2015, Latest: 2020}, want: 0.6875},
		{span: models.EraSpan{Earliest: 2010, Latest: 2020}, want: 0.5},
		{span: models.EraSpan{Earliest: 2000, Latest: 2020}, want: 0.2},
		{span: models.EraSpan{Earliest: 1990, Latest: 2020}, want: 0.16},
		{span: models.EraSpan{Earliest: 1950, Latest: 2020}, want: 0},
	}

	for _, tt := range tc {
		t.Run("", func(t *testing.T) {
			m := models.PlaylistMetrics{EraSpan: &tt.span}
			if got := EraCohesion(m); !approx(got, tt.want) {
				t.Errorf("span %d: expected %f, got %f", tt.span.Years(), tt.want, got)
			}
		})
	}

	t.Run("unknown years are neutral", func(t *testing.T) {
		if got := EraCohesion(models.PlaylistMetrics{}); got != 0.5 {
			t.Errorf("expected 0.5, got %f", got)
		}
	})
}

func TestPopularityBalance(t *testing.T) {
	tc := []struct {
		name   string
		tracks []models.Track
		want   float64
	}{
		{name: "identical counts", tracks: withPlays(5, 5, 5), want: 0},
		{name: "wide spread", tracks: withPlays(1, 20), want: 0.931973},
		{name: "all zero", tracks: withPlays(0, 0), want: 0},
		{name: "single count", tracks: withPlays(7), want: 0.5},
		{name: "unknown counts", tracks: withTempos(100, 120), want: 0.5},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := PopularityBalance(tt.tracks); !approx(got, tt.want) {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestTempoSmoothness(t *testing.T) {
	tc := []struct {
		name   string
		tempos []int
		want   float64
	}{
		{name: "steady", tempos: []int{120, 122, 125}, want: 1},
		{name: "ten bpm step", tempos: []int{100, 110}, want: 0.85},
		{name: "thirty bpm step", tempos: []int{100, 130}, want: 0.3},
		{name: "huge step", tempos: []int{60, 200}, want: 0},
		{name: "averages steps", tempos: []int{100, 110, 110}, want: 0.925},
		{name: "unknown breaks the pair", tempos: []int{100, 0, 160}, want: 0.5},
		{name: "skips pairs with unknown", tempos: []int{100, 110, 0, 200}, want: 0.85},
		{name: "single tempo", tempos: []int{100}, want: 0.5},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := TempoSmoothness(withTempos(tt.tempos...)); !approx(got, tt.want) {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
