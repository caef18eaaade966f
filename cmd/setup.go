package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/daylist/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); err == nil {
		r.writePlain("Config file already exists: %s\n", r.configPath)
		return nil
	}

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", r.configPath)

	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.subsonic.base_url, username and password (or SUBSONIC_URL, SUBSONIC_USER, SUBSONIC_PASSWORD)\n")
	r.writePlain("2. Run 'daylist library ping' to test the connection\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.ensureDB()
	if err != nil {
		return err
	}

	statuses, err := shared.MigrationStatuses(db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	r.writePlainHeader("Migrations")
	for _, s := range statuses {
		mark := "pending"
		if s.Applied {
			mark = "applied"
			if s.AppliedAt != nil {
				mark += " " + s.AppliedAt.Format("2006-01-02 15:04")
			}
		}
		r.writePlain("%04d %-32s %s\n", s.Version, s.Name, mark)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}
