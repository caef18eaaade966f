package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/daylist/internal/services"
	"github.com/desertthunder/daylist/internal/shared"
	"github.com/desertthunder/daylist/internal/tasks"
	"github.com/desertthunder/daylist/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for previewing and publishing generated playlists.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	profiles, err := r.loadProfiles(cmd)
	if err != nil {
		return err
	}

	offline, dryRun := cmd.Bool("offline"), cmd.Bool("dry-run")

	var lib services.Library
	if !offline || !dryRun {
		if lib, err = r.ensureLibrary(); err != nil {
			return err
		}
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/daylist-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, err := r.newEngine(lib, true)
	if err != nil {
		return err
	}

	fetch := r.fetchOpts(cmd)
	fetch.Offline = offline
	fetch.Genres = tasks.ProfileGenres(profiles)

	model := ui.NewModel(ctx, engine, ui.Options{
		Profiles: profiles,
		Now:      time.Now().In(r.config.Generation.Location()),
		Fetch:    fetch,
		Publish: tasks.PublishOpts{
			Workers:   r.config.Generation.Workers,
			RateLimit: r.config.Generation.RateLimit,
			DryRun:    dryRun,
		},
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
