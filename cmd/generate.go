package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/daylist/internal/formatter"
	"github.com/desertthunder/daylist/internal/shared"
	"github.com/desertthunder/daylist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Generate runs a full curation: fetch the pool, build one playlist per profile, record and publish.
//
// Exits with an error when nothing could be published.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	profiles, err := r.loadProfiles(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	now, err := runDate(cmd.String("date"), r.config.Generation.Location(), time.Now())
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	offline := cmd.Bool("offline")

	var engine *tasks.PlaylistEngine
	if offline && dryRun {
		engine, err = r.newEngine(nil, true)
	} else {
		lib, libErr := r.ensureLibrary()
		if libErr != nil {
			return libErr
		}
		engine, err = r.newEngine(lib, true)
	}
	if err != nil {
		return err
	}

	fetch := r.fetchOpts(cmd)
	fetch.Offline = offline

	opts := tasks.RunOpts{
		Profiles: profiles,
		Now:      now,
		Fetch:    fetch,
		Record:   !cmd.Bool("no-record"),
		Publish: tasks.PublishOpts{
			Workers:      r.config.Generation.Workers,
			RateLimit:    r.config.Generation.RateLimit,
			DryRun:       dryRun,
			KeepExisting: cmd.Bool("keep-existing"),
			ExportDir:    cmd.String("export-dir"),
			ExportFormat: format,
		},
	}

	r.logger.Info("generating playlists", "profiles", len(profiles), "date", now.Format("2006-01-02"),
		"offline", offline, "dry_run", dryRun)

	progress := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go r.logProgress(progress, done)

	result, err := engine.Run(ctx, progress, opts)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	return r.printRun(result, format, dryRun)
}

func (r *Runner) printRun(result *tasks.RunResult, format formatter.Format, dryRun bool) error {
	r.writePlain("Filtered out %d non-songs, %d tracks in pool\n", result.Fetch.NonSongs, len(result.Fetch.Pool))

	for i, g := range result.Generated {
		pl := g.Report.Playlist
		if format == formatter.Text {
			r.writePlainHeader(fmt.Sprintf("%s (%s)", pl.Name, g.Profile))
		}

		out, err := formatter.Render(pl, format)
		if err != nil {
			return err
		}
		r.writePlain("%s", out)
		if dryRun && format == formatter.Text {
			r.writePlain("%s", formatter.ToDetails(pl))
		}

		outcome := result.Publish.Outcomes[i]
		switch {
		case outcome.Err != nil:
			r.writePlain("✗ %s: %v\n", pl.Name, outcome.Err)
		case outcome.File != "":
			r.writePlain("Exported to %s\n", outcome.File)
		}
		if len(outcome.Deleted) > 0 {
			r.writePlain("Replaced %d previous playlist(s)\n", len(outcome.Deleted))
		}
	}

	pub := result.Publish
	if pub.ManifestPath != "" {
		r.writePlain("Manifest written to %s\n", pub.ManifestPath)
	}

	if dryRun {
		r.writePlainln("Dry run: generated %d playlists, nothing was published", pub.Total)
		return nil
	}

	r.writePlainln("Successfully created %d/%d playlists", pub.Published, pub.Total)
	if !pub.Succeeded() {
		return fmt.Errorf("%w: playlist creation failed", shared.ErrAPIRequest)
	}
	return nil
}

// runDate resolves the --date flag to an instant in loc, keeping the wall clock time of now.
func runDate(value string, loc *time.Location, now time.Time) (time.Time, error) {
	now = now.In(loc)
	if value == "" {
		return now, nil
	}

	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --date must be YYYY-MM-DD, got %q", shared.ErrInvalidFlag, value)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, loc), nil
}
