package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Setup writes the config template when none exists and initializes the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.writePlain("%s\n", ui.Styles.OK("✓ Config written to "+configPath))
	} else {
		r.logger.Info("config file exists", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if config.Database.Path == "" {
		r.writePlain("%s\n", ui.Styles.Warn("Transfer history disabled (database.path is empty)"))
	} else {
		r.logger.Info("initializing database", "path", config.Database.Path)
		db, err := shared.OpenHistory(config.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db.Close()
		r.writePlain("%s\n", ui.Styles.OK("✓ History database ready at "+config.Database.Path))
	}

	r.writePlain("\nNext steps:\n")
	r.writePlain("1. Fill in the [[users]] credentials in %s\n", configPath)
	r.writePlain("2. Run 'ymx auth --user <name>' to connect Spotify\n")
	r.writePlain("3. Run 'ymx --user <name>' to start migrating\n")
	return nil
}
