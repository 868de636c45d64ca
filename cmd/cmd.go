// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

// rootCommand builds the ymx application. Root flags are visible to every subcommand.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ymx",
		Usage:   "Transfer playlists from Yandex Music to Spotify",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Configured user to act as (prompted when omitted)",
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "List the user's Yandex Music playlists and exit",
			},
			&cli.BoolFlag{
				Name:  "select",
				Usage: "Choose playlists to transfer by number",
			},
			&cli.BoolFlag{
				Name:  "liked",
				Usage: "Transfer the liked songs collection",
			},
			&cli.StringFlag{
				Name:  "headless",
				Usage: "Resolve ambiguous matches without prompting (skip or first)",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Unmatched songs report path (defaults to report_path from the config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Before:   r.before,
		Action:   r.Migrate,
		Commands: r.register(),
	}
}

// setupCommand writes the config template and initializes the history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the history database",
		Action: r.Setup,
	}
}

// authCommand connects a user's Spotify account.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize Spotify access for a configured user",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the browser callback",
				Value: 2 * time.Minute,
			},
		},
		Action: r.Auth,
	}
}

// historyCommand lists recorded transfers.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded playlist transfers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of transfers to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Output CSV",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.History,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist selection.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Pick playlists in an interactive list, then transfer them",
		Action:  r.TUI,
	}
}
