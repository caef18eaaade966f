package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/shared"
	tu "github.com/desertthunder/daylist/internal/testing"
)

func samplePlaylist() models.Playlist {
	first := tu.NewTrack("t1", "Blue | Green", "Miles Davis", "jazz", "modal")
	first.Tempo = 60
	first.Year = 1959
	first.PlayCount = models.Plays(12)
	first.LastPlayed = "2025-08-01T20:00:00Z"

	second := tu.NewTrack("t2", "So What", "Miles Davis", "jazz")
	second.Tempo = 0
	second.Year = 1959

	return models.Playlist{
		Name:    "morning sunday jazz",
		Profile: "morning",
		Quality: 0.8125,
		Tracks: []models.PlaylistTrack{
			{Track: first, Transition: 0.5, Contribution: 0.8125, Reason: models.PickBest},
			{Track: second, Transition: 0.75, Contribution: -0.01, Reason: models.PickFallback},
		},
		Metrics: models.PlaylistMetrics{
			TotalDuration:     480,
			AverageTempo:      60,
			GenreDistribution: map[string]int{"jazz": 2, "modal": 1},
			ArtistCount:       1,
			EraSpan:           &models.EraSpan{Earliest: 1959, Latest: 1959},
			TrackCount:        2,
		},
		GeneratedAt: time.Date(2025, 8, 3, 7, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", Text},
		{"txt", Text},
		{"TEXT", Text},
		{"md", Markdown},
		{"markdown", Markdown},
		{"csv", CSV},
		{" json ", JSON},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := ParseFormat("xml")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestExtension(t *testing.T) {
	for f, want := range map[Format]string{Text: ".txt", Markdown: ".md", CSV: ".csv", JSON: ".json"} {
		if got := f.Extension(); got != want {
			t.Errorf("%s.Extension() = %q, want %q", f, got, want)
		}
	}
}

func TestRenderers(t *testing.T) {
	pl := samplePlaylist()

	t.Run("ToText", func(t *testing.T) {
		out := string(ToText(pl))

		for _, want := range []string{
			"Playlist: morning sunday jazz",
			"Profile: morning",
			"Tracks: 2 (8:00)",
			"Quality: 0.812",
			" 1. Miles Davis - Blue | Green\n",
			" 2. Miles Davis - So What (fallback)\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("ToMarkdown", func(t *testing.T) {
		out := string(ToMarkdown(pl))

		for _, want := range []string{
			"# morning sunday jazz\n",
			"**Generated**: 2025-08-03 07:00",
			"**Top genre**: jazz (100%)",
			"**Era**: 1959-1959",
			"| 1 | Miles Davis | Blue \\| Green | 60 | 4:00 | 0.50 | +0.812 | best_candidate |",
			"| 2 | Miles Davis | So What | - | 4:00 | 0.75 | -0.010 | fallback |",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("markdown output missing %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("ToCSV", func(t *testing.T) {
		data, err := ToCSV(pl)
		if err != nil {
			t.Fatalf("ToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(records))
		}
		if records[0][0] != "Position" || records[0][11] != "Reason" {
			t.Errorf("unexpected headers: %v", records[0])
		}

		row := records[1]
		if row[1] != "t1" || row[2] != "Blue | Green" || row[5] != "jazz;modal" || row[6] != "60" {
			t.Errorf("unexpected first row: %v", row)
		}
		if row[9] != "0.5000" || row[10] != "0.8125" || row[11] != "best_candidate" {
			t.Errorf("unexpected diagnostics: %v", row[9:])
		}
	})

	t.Run("ToJSON", func(t *testing.T) {
		data, err := ToJSON(pl)
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}

		var decoded struct {
			Name    string  `json:"name"`
			Quality float64 `json:"quality_score"`
			Tracks  []struct {
				Reason string `json:"reason"`
			} `json:"tracks"`
			Metrics struct {
				TrackCount int `json:"total_songs"`
			} `json:"metrics"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Name != pl.Name || decoded.Quality != pl.Quality {
			t.Errorf("unexpected header: %+v", decoded)
		}
		if len(decoded.Tracks) != 2 || decoded.Tracks[1].Reason != "fallback" {
			t.Errorf("unexpected tracks: %+v", decoded.Tracks)
		}
		if decoded.Metrics.TrackCount != 2 {
			t.Errorf("expected total_songs 2, got %d", decoded.Metrics.TrackCount)
		}
	})

	t.Run("ToDetails", func(t *testing.T) {
		out := string(ToDetails(pl))

		for _, want := range []string{
			"morning sunday jazz [morning] 2 tracks, 8:00, quality 0.812",
			"id=t1 genres=jazz,modal bpm=60 duration=4:00 plays=12 last_played=2025-08-01T20:00:00Z",
			"id=t2 genres=jazz bpm=- duration=4:00 plays=? last_played=never",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("details missing %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("Render", func(t *testing.T) {
		for _, f := range Formats {
			data, err := Render(pl, f)
			if err != nil {
				t.Errorf("Render(%s) failed: %v", f, err)
			}
			if len(data) == 0 {
				t.Errorf("Render(%s) returned nothing", f)
			}
		}

		if _, err := Render(pl, Format("xml")); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("EmptyPlaylist", func(t *testing.T) {
		empty := models.Playlist{Name: "evening sunday", Profile: "evening"}

		if out := string(ToText(empty)); !strings.Contains(out, "Tracks: 0 (0:00)") {
			t.Errorf("unexpected text output: %s", out)
		}
		if out := string(ToMarkdown(empty)); strings.Contains(out, "Top genre") {
			t.Errorf("empty playlist should have no top genre: %s", out)
		}
	})
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"morning sunday jazz", "morning-sunday-jazz"},
		{"Late Night: R&B / Soul", "late-night-r-b-soul"},
		{"  leading", "leading"},
		{"trailing!!", "trailing"},
		{"2020s", "2020s"},
		{"???", "playlist"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slug(tt.in); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriters(t *testing.T) {
	t.Run("WriteExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")

		path, err := WriteExport(samplePlaylist(), Markdown, dir)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		if want := filepath.Join(dir, "morning-sunday-jazz.md"); path != want {
			t.Errorf("expected path %s, got %s", want, path)
		}
		tu.AssertFileExists(t, path)

		if content := tu.MustReadFile(t, path); !strings.HasPrefix(content, "# morning sunday jazz") {
			t.Errorf("unexpected file content: %s", content)
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")

		if err := WriteManifest(map[string]int{"published": 2}, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		if content := tu.MustReadFile(t, path); !strings.Contains(content, `"published": 2`) {
			t.Errorf("unexpected manifest: %s", content)
		}
	})

	t.Run("WriteManifestError", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "manifest.json")

		if err := WriteManifest(map[string]int{}, path); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})
}
