package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/daylist/internal/repositories"
	"github.com/desertthunder/daylist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CacheRefresh fetches a fresh pool from the server and stores it for offline runs.
func (r *Runner) CacheRefresh(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.ensureLibrary()
	if err != nil {
		return err
	}

	engine, err := r.newEngine(lib, true)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go r.logProgress(progress, done)

	res, err := engine.Fetch(ctx, progress, r.fetchOpts(cmd))
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("failed to refresh cache: %w", err)
	}

	r.writePlain("✓ Cached %d tracks (%d requests, %d songs received)\n", res.Cached, res.Requests, res.Fetched)
	r.writePlain("  %d non-songs will be skipped at generation time\n", res.NonSongs)
	return nil
}

// CacheStats shows how many tracks are cached and when they were fetched.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.trackRepository()
	if err != nil {
		return err
	}

	stats, err := repo.Stats()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Track cache")
	r.writePlain("Tracks:    %d\n", stats.Count)
	r.writePlain("Favorites: %d\n", stats.Favorites)
	if stats.Oldest != nil && stats.Newest != nil {
		r.writePlain("Oldest:    %s\n", stats.Oldest.Local().Format("2006-01-02 15:04"))
		r.writePlain("Newest:    %s\n", stats.Newest.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// CacheClear removes every cached track.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.trackRepository()
	if err != nil {
		return err
	}

	n, err := repo.Clear()
	if err != nil {
		return err
	}

	r.logger.Info("cleared track cache", "tracks", n)
	r.writePlain("✓ Removed %d cached tracks\n", n)
	return nil
}

func (r *Runner) trackRepository() (*repositories.TrackRepository, error) {
	db, err := r.ensureDB()
	if err != nil {
		return nil, err
	}
	return repositories.NewTrackRepository(db), nil
}
