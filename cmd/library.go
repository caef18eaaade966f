package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/daylist/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryPing checks connectivity and credentials against the music server.
func (r *Runner) LibraryPing(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.ensureLibrary()
	if err != nil {
		return err
	}

	info, err := lib.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(info, true)
	}

	r.writePlain("✓ Connected to %s\n", lib.Name())
	r.writePlain("  API version: %s\n", info.APIVersion)
	if info.Type != "" {
		r.writePlain("  Server: %s %s\n", info.Type, info.ServerVersion)
	}
	r.writePlain("  OpenSubsonic: %t\n", info.OpenSubsonic)
	return nil
}

// LibraryPlaylists lists the playlists visible to the configured user.
func (r *Runner) LibraryPlaylists(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.ensureLibrary()
	if err != nil {
		return err
	}

	playlists, err := lib.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s playlists (%d)", lib.Name(), len(playlists)))
	for _, pl := range playlists {
		r.writePlain("%-40s %5d tracks  %8s  %s\n", pl.Name, pl.TrackCount, shared.FormatDuration(pl.Duration), pl.ID)
	}
	return nil
}

// LibraryOpen opens the server's web interface, at a playlist when an ID is given.
func (r *Runner) LibraryOpen(ctx context.Context, cmd *cli.Command) error {
	base := r.config.Credentials.Subsonic.BaseURL
	if base == "" {
		return fmt.Errorf("%w: subsonic base_url is required", shared.ErrMissingCredentials)
	}

	url := shared.LibraryURL(base, cmd.Args().First())
	r.logger.Debug("opening browser", "url", url)
	if err := r.openURL(url); err != nil {
		return err
	}

	r.writePlain("Opened %s\n", url)
	return nil
}
