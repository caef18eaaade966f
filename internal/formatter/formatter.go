// package formatter renders generated playlists as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/daylist/internal/curator"
	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/shared"
)

// Format names an output format.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// Formats lists the supported formats in display order.
var Formats = []Format{Text, Markdown, CSV, JSON}

// ParseFormat resolves a format name or common alias ("txt", "md").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, markdown, csv or json)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case CSV:
		return ".csv"
	case JSON:
		return ".json"
	default:
		return ".txt"
	}
}

// Render renders pl in format f.
func Render(pl models.Playlist, f Format) ([]byte, error) {
	switch f {
	case Markdown:
		return ToMarkdown(pl), nil
	case CSV:
		return ToCSV(pl)
	case JSON:
		return ToJSON(pl)
	case Text, "":
		return ToText(pl), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ToText renders a numbered track list with the playlist summary.
func ToText(pl models.Playlist) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", pl.Name)
	fmt.Fprintf(&buf, "Profile: %s\n", pl.Profile)
	fmt.Fprintf(&buf, "Tracks: %d (%s)\n", pl.Len(), shared.FormatDuration(pl.Metrics.TotalDuration))
	fmt.Fprintf(&buf, "Quality: %.3f\n\n", pl.Quality)

	for i, pt := range pl.Tracks {
		fmt.Fprintf(&buf, "%2d. %s - %s%s\n", i+1, pt.Track.Artist, pt.Track.Title, fallbackMark(pt))
	}

	return buf.Bytes()
}

// ToMarkdown renders a summary table and the ordered tracks with per-step diagnostics.
func ToMarkdown(pl models.Playlist) []byte {
	var buf bytes.Buffer
	m := pl.Metrics

	fmt.Fprintf(&buf, "# %s\n\n", pl.Name)
	fmt.Fprintf(&buf, "**Profile**: %s\n", pl.Profile)
	fmt.Fprintf(&buf, "**Generated**: %s\n", pl.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&buf, "**Tracks**: %d\n", pl.Len())
	fmt.Fprintf(&buf, "**Duration**: %s\n", shared.FormatDuration(m.TotalDuration))
	fmt.Fprintf(&buf, "**Quality**: %.3f\n", pl.Quality)
	if m.AverageTempo > 0 {
		fmt.Fprintf(&buf, "**Average BPM**: %.0f\n", m.AverageTempo)
	}
	if genre, share := curator.DominantGenre(m); genre != "" {
		fmt.Fprintf(&buf, "**Top genre**: %s (%.0f%%)\n", genre, share*100)
	}
	if m.EraSpan != nil {
		fmt.Fprintf(&buf, "**Era**: %d-%d\n", m.EraSpan.Earliest, m.EraSpan.Latest)
	}

	buf.WriteString("\n## Tracks\n\n")
	buf.WriteString("| # | Artist | Title | BPM | Length | Transition | Contribution | Pick |\n")
	buf.WriteString("|---|--------|-------|-----|--------|------------|--------------|------|\n")
	for i, pt := range pl.Tracks {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %.2f | %+.3f | %s |\n",
			i+1,
			escapeCell(pt.Track.Artist),
			escapeCell(pt.Track.Title),
			bpm(pt.Track),
			shared.FormatDuration(pt.Track.Duration),
			pt.Transition,
			pt.Contribution,
			pt.Reason,
		)
	}

	return buf.Bytes()
}

// ToCSV renders one row per placed track.
func ToCSV(pl models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artist", "Album", "Genres", "BPM", "Duration", "Year", "Transition", "Contribution", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, pt := range pl.Tracks {
		t := pt.Track
		record := []string{
			strconv.Itoa(i + 1),
			t.ID,
			t.Title,
			t.Artist,
			t.Album,
			strings.Join(t.Genres, ";"),
			strconv.Itoa(t.Tempo),
			strconv.Itoa(t.Duration),
			strconv.Itoa(t.Year),
			strconv.FormatFloat(pt.Transition, 'f', 4, 64),
			strconv.FormatFloat(pt.Contribution, 'f', 4, 64),
			string(pt.Reason),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToJSON renders the whole playlist, metrics included.
func ToJSON(pl models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(pl, true)
}

// ToDetails renders the per-track metadata a dry run prints instead of publishing.
func ToDetails(pl models.Playlist) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s [%s] %d tracks, %s, quality %.3f\n",
		pl.Name, pl.Profile, pl.Len(), shared.FormatDuration(pl.Metrics.TotalDuration), pl.Quality)

	for i, pt := range pl.Tracks {
		t := pt.Track
		lastPlayed := t.LastPlayed
		if lastPlayed == "" {
			lastPlayed = "never"
		}
		plays := "?"
		if t.HasPlayCount() {
			plays = strconv.Itoa(t.Plays())
		}
		fmt.Fprintf(&buf, "  %2d. %s - %s\n", i+1, t.Artist, t.Title)
		fmt.Fprintf(&buf, "      id=%s genres=%s bpm=%s duration=%s plays=%s last_played=%s\n",
			t.ID, genres(t), bpm(t), shared.FormatDuration(t.Duration), plays, lastPlayed)
	}

	return buf.Bytes()
}

// Slug turns a playlist name into a file name stem.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "playlist"
	}
	return slug
}

// WriteExport renders pl in format f to {dir}/{slug}{ext} and returns the path.
func WriteExport(pl models.Playlist, f Format, dir string) (string, error) {
	data, err := Render(pl, f)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, Slug(pl.Name)+f.Extension())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func fallbackMark(pt models.PlaylistTrack) string {
	if pt.Reason == models.PickFallback {
		return " (fallback)"
	}
	return ""
}

func bpm(t models.Track) string {
	if !t.HasTempo() {
		return "-"
	}
	return strconv.Itoa(t.Tempo)
}

func genres(t models.Track) string {
	if len(t.Genres) == 0 {
		return "-"
	}
	return strings.Join(t.Genres, ",")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
