package testing

import (
	"fmt"

	"github.com/desertthunder/daylist/internal/models"
)

// NewTrack builds a playable track with sensible defaults: four minutes, 120 bpm, 2020.
func NewTrack(id, title, artist string, genres ...string) models.Track {
	return models.Track{
		ID:       id,
		Title:    title,
		Artist:   artist,
		Album:    artist + " LP",
		Genres:   genres,
		Tempo:    120,
		Duration: 240,
		Year:     2020,
	}
}

// DiverseTracks returns eighteen tracks spanning genres, tempos, eras and play counts.
// Ids run "1" through "18"; tracks 1 and 2 share an artist.
func DiverseTracks() []models.Track {
	type row struct {
		title, genre   string
		bpm, year, dur int
		plays          int
		favorite       bool
		played         string
	}
	rows := []row{
		{"Song 1", "Rock", 120, 2020, 200, 5, false, ""},
		{"Song 2", "Rock", 125, 2021, 210, 3, false, ""},
		{"Song 3", "Pop", 130, 2019, 180, 7, true, ""},
		{"Song 4", "Jazz", 90, 2022, 240, 1, false, ""},
		{"Slow Song", "Ambient", 60, 2020, 300, 2, false, ""},
		{"Medium Song", "Indie", 120, 2021, 220, 4, false, ""},
		{"Fast Song", "Electronic", 180, 2019, 190, 6, false, ""},
		{"Rock Song 1", "Rock", 140, 2020, 200, 3, false, ""},
		{"Rock Song 2", "Rock", 135, 2021, 195, 4, false, ""},
		{"Classical", "Classical", 80, 1990, 400, 1, false, ""},
		{"80s Song", "Synthpop", 125, 1985, 210, 2, false, ""},
		{"90s Song", "Grunge", 130, 1995, 220, 3, false, ""},
		{"2020s Song", "Hyperpop", 160, 2023, 150, 8, false, ""},
		{"Hit Song", "Pop", 128, 2022, 200, 50, true, ""},
		{"Deep Cut", "Indie", 110, 2021, 250, 1, false, ""},
		{"Moderate Hit", "Rock", 140, 2020, 230, 10, false, ""},
		{"Recent Song", "Pop", 120, 2023, 180, 5, false, "2025-08-01T12:00:00Z"},
		{"Old Song", "Rock", 125, 2022, 200, 3, false, "2025-06-01T12:00:00Z"},
	}

	tracks := make([]models.Track, len(rows))
	for i, r := range rows {
		tracks[i] = models.Track{
			ID:         fmt.Sprintf("%d", i+1),
			Title:      r.title,
			Artist:     fmt.Sprintf("Artist %c", 'A'+max(i-1, 0)),
			Album:      fmt.Sprintf("Album %d", i+1),
			Genres:     []string{r.genre},
			Tempo:      r.bpm,
			Duration:   r.dur,
			Year:       r.year,
			PlayCount:  models.Plays(r.plays),
			LastPlayed: r.played,
			Favorite:   r.favorite,
		}
	}
	return tracks
}
