// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func profileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "profiles",
			Usage: "Path to taste profile file (.json, .yaml or .toml)",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "Only use the profile with this name",
		},
	}
}

func poolSizeFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "pool-size",
		Usage: "Number of tracks to fetch for the candidate pool",
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example configuration file",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// libraryCommand handles direct music server operations
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Music server operations",
		Commands: []*cli.Command{
			{
				Name:   "ping",
				Usage:  "Check connectivity and credentials",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.LibraryPing,
			},
			{
				Name:  "playlists",
				Usage: "List playlists on the server",
				Flags: []cli.Flag{
					jsonFlag(),
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LibraryPlaylists,
			},
			{
				Name:      "open",
				Usage:     "Open the server web interface, optionally at a playlist",
				ArgsUsage: "[playlist-id]",
				Action:    r.LibraryOpen,
			},
		},
	}
}

// generateCommand builds and publishes one playlist per taste profile
func generateCommand(r *Runner) *cli.Command {
	flags := append(profileFlags(),
		poolSizeFlag(),
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print playlist details instead of publishing",
		},
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "Generate from the cached pool instead of the server",
		},
		&cli.BoolFlag{
			Name:  "keep-existing",
			Usage: "Do not delete previous playlists of the same profile",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (text, markdown, csv, json)",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:  "date",
			Usage: "Generate as of this date (YYYY-MM-DD)",
		},
		&cli.BoolFlag{
			Name:  "no-record",
			Usage: "Do not store the playlists in the generation history",
		},
		&cli.StringFlag{
			Name:  "export-dir",
			Usage: "Also write each playlist to this directory",
		},
	)

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate today's playlists and publish them to the server",
		Flags:   flags,
		Action:  r.Generate,
	}
}

// cacheCommand handles the local track pool cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the locally cached track pool",
		Commands: []*cli.Command{
			{
				Name:   "refresh",
				Usage:  "Fetch a fresh pool from the server and cache it",
				Flags:  []cli.Flag{poolSizeFlag()},
				Action: r.CacheRefresh,
			},
			{
				Name:   "stats",
				Usage:  "Show cache statistics",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached tracks",
				Action: r.CacheClear,
			},
		},
	}
}

// historyCommand handles previously generated playlists
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse previously generated playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List generated playlists, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "profile",
						Usage: "Only show playlists of this profile",
					},
					jsonFlag(),
				},
				Action: r.HistoryList,
			},
			{
				Name:      "show",
				Usage:     "Show a generated playlist by sequence number or ID",
				ArgsUsage: "<sequence|id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (text, markdown, csv, json)",
						Value:   "text",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:      "delete",
				Usage:     "Remove a generated playlist from the history",
				ArgsUsage: "<sequence|id>",
				Action:    r.HistoryDelete,
			},
		},
	}
}

// profilesCommand handles taste profile files
func profilesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "Inspect taste profiles",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List configured profiles",
				Flags:  append(profileFlags(), jsonFlag()),
				Action: r.ProfilesList,
			},
			{
				Name:   "validate",
				Usage:  "Validate the profile file",
				Flags:  profileFlags(),
				Action: r.ProfilesValidate,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist previews.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Preview generated playlists interactively",
		Flags: append(profileFlags(),
			poolSizeFlag(),
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Generate from the cached pool instead of the server",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Preview publishing without writing to the server",
			},
		),
		Action: r.TUI,
	}
}
