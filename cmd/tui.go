package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/ymx-tui.log"

// TUI opens the playlist picker, then transfers the confirmed selection in the terminal.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	user, err := r.chooseUser(config, cmd.String("user"))
	if err != nil {
		return quietEOF(err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	s, err := r.openSession(ctx, config, user, sessionOpts{
		headless:   cmd.String("headless"),
		reportPath: cmd.String("report"),
	})
	if err != nil {
		return err
	}
	defer s.close()

	progress := s.engine.Progress
	s.engine.Progress = nil

	model := ui.NewModel(ctx, s.engine, cmd.Bool("liked"))
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	if err := model.Err(); err != nil {
		return err
	}

	selected := model.Selection()
	if len(selected) == 0 {
		return r.writePlain("Nothing selected.\n")
	}

	s.engine.Progress = progress
	r.writePlain("Logging to %s\n", tuiLogPath)
	return r.run(ctx, s, selected)
}
