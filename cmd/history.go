package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/daylist/internal/formatter"
	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/repositories"
	"github.com/desertthunder/daylist/internal/shared"
	"github.com/urfave/cli/v3"
)

type historyEntry struct {
	ID          string  `json:"id"`
	Sequence    int     `json:"sequence"`
	Profile     string  `json:"profile"`
	Name        string  `json:"name"`
	TrackCount  int     `json:"track_count"`
	Duration    int     `json:"duration"`
	Quality     float64 `json:"quality_score"`
	RemoteID    string  `json:"remote_id,omitempty"`
	GeneratedAt string  `json:"generated_at"`
}

func newHistoryEntry(g *models.GeneratedPlaylist) historyEntry {
	return historyEntry{
		ID:          g.ID(),
		Sequence:    g.Sequence(),
		Profile:     g.Profile(),
		Name:        g.Name(),
		TrackCount:  g.TrackCount(),
		Duration:    g.Duration(),
		Quality:     g.Quality(),
		RemoteID:    g.RemoteID(),
		GeneratedAt: g.GeneratedAt().Format("2006-01-02 15:04"),
	}
}

// HistoryList lists generated playlists, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.historyRepository()
	if err != nil {
		return err
	}

	playlists, err := repo.List(map[string]any{
		"profile": cmd.String("profile"),
		"limit":   cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	entries := make([]historyEntry, len(playlists))
	for i, g := range playlists {
		entries[i] = newHistoryEntry(g)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		r.writePlain("No generated playlists yet\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Generated playlists (%d)", len(entries)))
	for _, e := range entries {
		published := "-"
		if e.RemoteID != "" {
			published = e.RemoteID
		}
		r.writePlain("#%-4d %-16s %-44s %3d tracks  q=%.2f  %s  %s\n",
			e.Sequence, e.GeneratedAt, e.Name, e.TrackCount, e.Quality, shared.FormatDuration(e.Duration), published)
	}
	return nil
}

// HistoryShow renders a generated playlist from the history.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	repo, err := r.historyRepository()
	if err != nil {
		return err
	}

	g, err := findGenerated(repo, cmd.Args().First())
	if err != nil {
		return err
	}

	out, err := formatter.Render(g.Playlist(), format)
	if err != nil {
		return err
	}

	if format == formatter.Text {
		r.writePlainHeader(fmt.Sprintf("#%d %s", g.Sequence(), g.Name()))
	}
	r.writePlain("%s", out)
	return nil
}

// HistoryDelete removes a generated playlist from the history. The server playlist is left alone.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.historyRepository()
	if err != nil {
		return err
	}

	g, err := findGenerated(repo, cmd.Args().First())
	if err != nil {
		return err
	}

	if err := repo.Delete(g.ID()); err != nil {
		return err
	}

	r.writePlain("✓ Removed #%d %s from history\n", g.Sequence(), g.Name())
	return nil
}

func (r *Runner) historyRepository() (*repositories.GeneratedPlaylistRepository, error) {
	db, err := r.ensureDB()
	if err != nil {
		return nil, err
	}
	return repositories.NewGeneratedPlaylistRepository(db), nil
}

// findGenerated looks up a playlist by sequence number, falling back to its ID.
func findGenerated(repo *repositories.GeneratedPlaylistRepository, ref string) (*models.GeneratedPlaylist, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: playlist sequence or ID", shared.ErrMissingArgument)
	}
	if seq, err := strconv.Atoi(ref); err == nil {
		return repo.GetBySequence(seq)
	}
	return repo.Get(ref)
}
