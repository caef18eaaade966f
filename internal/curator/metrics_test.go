package curator

import (
	"testing"

	"github.com/desertthunder/daylist/internal/models"
	tu "github.com/desertthunder/daylist/internal/testing"
)

func TestComputeMetrics(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		m := ComputeMetrics(nil)
		if m.TrackCount != 0 || m.TotalDuration != 0 || m.ArtistCount != 0 {
			t.Errorf("expected zero metrics, got %+v", m)
		}
		if m.TempoRange != nil || m.EraSpan != nil {
			t.Error("expected no tempo range and no era span")
		}
		if m.GenreDistribution == nil {
			t.Error("expected an empty, non-nil genre distribution")
		}
	})

	t.Run("aggregates known values", func(t *testing.T) {
		tracks := []models.Track{
			{ID: "1", Title: "One", Artist: "Alpha", Genres: []string{"Rock", "Indie"}, Tempo: 100, Duration: 200, Year: 1999, PlayCount: models.Plays(4)},
			{ID: "2", Title: "Two", Artist: " alpha ", Genres: []string{"rock"}, Tempo: 140, Duration: 100, Year: 2004},
			{ID: "3", Title: "Three", Artist: "Beta", Duration: 300, PlayCount: models.Plays(8)},
		}
		m := ComputeMetrics(tracks)

		if m.TrackCount != 3 {
			t.Errorf("expected 3 tracks, got %d", m.TrackCount)
		}
		if m.TotalDuration != 600 {
			t.Errorf("expected 600 seconds, got %d", m.TotalDuration)
		}
		if !approx(m.AverageTempo, 120) {
			t.Errorf("expected average tempo 120, got %f", m.AverageTempo)
		}
		if m.TempoRange == nil || m.TempoRange.Min != 100 || m.TempoRange.Max != 140 {
			t.Errorf("expected tempo range 100-140, got %+v", m.TempoRange)
		}
		if m.GenreDistribution["rock"] != 2 || m.GenreDistribution["indie"] != 1 {
			t.Errorf("unexpected genre distribution %v", m.GenreDistribution)
		}
		if m.ArtistCount != 2 {
			t.Errorf("expected artists compared case-insensitively, got %d", m.ArtistCount)
		}
		if m.EraSpan == nil || m.EraSpan.Earliest != 1999 || m.EraSpan.Latest != 2004 {
			t.Errorf("expected era span 1999-2004, got %+v", m.EraSpan)
		}
		if !approx(m.AveragePlayCount, 4) {
			t.Errorf("expected average play count 4, got %f", m.AveragePlayCount)
		}
	})

	t.Run("fixture", func(t *testing.T) {
		m := ComputeMetrics(tu.DiverseTracks())
		if m.TrackCount != 18 || m.ArtistCount != 17 {
			t.Errorf("expected 18 tracks by 17 artists, got %d by %d", m.TrackCount, m.ArtistCount)
		}
		if m.TempoRange.Min != 60 || m.TempoRange.Max != 180 {
			t.Errorf("expected tempo range 60-180, got %+v", m.TempoRange)
		}
		if m.EraSpan.Earliest != 1985 || m.EraSpan.Latest != 2023 {
			t.Errorf("expected era span 1985-2023, got %+v", m.EraSpan)
		}
	})
}

func TestDominantGenre(t *testing.T) {
	t.Run("share of tracks", func(t *testing.T) {
		m := ComputeMetrics([]models.Track{
			tu.NewTrack("1", "One", "A", "Jazz"),
			tu.NewTrack("2", "Two", "B", "Jazz"),
			tu.NewTrack("3", "Three", "C", "Soul"),
			tu.NewTrack("4", "Four", "D", "Jazz"),
		})
		genre, share := DominantGenre(m)
		if genre != "jazz" || !approx(share, 0.75) {
			t.Errorf("expected jazz at 0.75, got %s at %f", genre, share)
		}
	})

	t.Run("ties resolve alphabetically", func(t *testing.T) {
		m := ComputeMetrics([]models.Track{
			tu.NewTrack("1", "One", "A", "Soul"),
			tu.NewTrack("2", "Two", "B", "Funk"),
		})
		if genre, _ := DominantGenre(m); genre != "funk" {
			t.Errorf("expected funk, got %s", genre)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if genre, share := DominantGenre(ComputeMetrics(nil)); genre != "" || share != 0 {
			t.Errorf("expected no dominant genre, got %q at %f", genre, share)
		}
	})
}
