package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/desertthunder/ymx/internal/formatter"
	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/tasks"
	"github.com/desertthunder/ymx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Migrate is the root action: --list, --select and --liked each run once, otherwise the menu loop runs.
//
// Closed input ends the interaction without an error.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	user, err := r.chooseUser(config, cmd.String("user"))
	if err != nil {
		return quietEOF(err)
	}

	s, err := r.openSession(ctx, config, user, sessionOpts{
		headless:   cmd.String("headless"),
		reportPath: cmd.String("report"),
	})
	if err != nil {
		return err
	}
	defer s.close()

	switch {
	case cmd.Bool("list"):
		err = r.listPlaylists(ctx, s)
	case cmd.Bool("select"):
		err = r.exportSelected(ctx, s)
	case cmd.Bool("liked"):
		err = r.exportLiked(ctx, s)
	default:
		err = r.menu(ctx, s)
	}
	return quietEOF(err)
}

func quietEOF(err error) error {
	if errors.Is(err, shared.ErrInputClosed) {
		return nil
	}
	return err
}

// menu loops until the user quits or input closes. Invalid choices re-prompt.
func (r *Runner) menu(ctx context.Context, s *session) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.writePlain("\nUser: %s\n", s.user)
		r.writePlain("Options:\n1. List playlists\n2. Export playlists\n3. Export liked songs\n4. Quit\n")
		r.writePlain("Choose an option (1-4): ")

		line, err := r.readLine()
		if err != nil {
			return err
		}

		choice, ok := menuIndex(line, 4)
		if !ok {
			r.writePlain("%s\n", ui.Styles.Warn("Invalid choice"))
			continue
		}

		switch choice {
		case 1:
			err = r.listPlaylists(ctx, s)
		case 2:
			err = r.exportSelected(ctx, s)
		case 3:
			err = r.exportLiked(ctx, s)
		case 4:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// menuIndex parses a 1-based choice in [1, n].
func menuIndex(line string, n int) (int, bool) {
	idx, err := strconv.Atoi(line)
	if err != nil || idx < 1 || idx > n {
		return 0, false
	}
	return idx, true
}

// listPlaylists prints the numbered source playlists. A listing failure is logged and the action ends.
func (r *Runner) listPlaylists(ctx context.Context, s *session) error {
	refs, ok := r.playlists(ctx, s)
	if !ok {
		return nil
	}

	r.writePlain("Playlists for user %s:\n", s.user)
	return formatter.PlaylistList(r.output, refs)
}

// exportSelected prompts for comma-separated playlist numbers and transfers them in the given order.
func (r *Runner) exportSelected(ctx context.Context, s *session) error {
	refs, ok := r.playlists(ctx, s)
	if !ok {
		return nil
	}

	r.writePlain("Select playlists to export for user %s (enter comma-separated playlist numbers):\n", s.user)
	if err := formatter.PlaylistList(r.output, refs); err != nil {
		return err
	}

	var selected []models.PlaylistRef
	for selected == nil {
		line, err := r.readLine()
		if err != nil {
			return err
		}

		indices, err := tasks.ParseSelection(line)
		if err == nil {
			selected, err = tasks.SelectPlaylists(refs, indices)
		}
		if err != nil {
			r.writePlain("%s\n", ui.Styles.Warn(err.Error()))
		}
	}

	return r.run(ctx, s, selected)
}

// exportLiked transfers the liked-songs collection.
func (r *Runner) exportLiked(ctx context.Context, s *session) error {
	return r.run(ctx, s, []models.PlaylistRef{s.engine.LikedPlaylist()})
}

func (r *Runner) playlists(ctx context.Context, s *session) ([]models.PlaylistRef, bool) {
	refs, err := s.engine.Playlists(ctx)
	if err != nil {
		r.logger.Error("failed to fetch playlists", "user", s.user, "error", err)
		return nil, false
	}
	return refs, true
}

// run transfers refs and prints a summary per playlist.
//
// Only cancellation is returned, other failures were already logged by the engine.
func (r *Runner) run(ctx context.Context, s *session, refs []models.PlaylistRef) error {
	result, err := s.engine.Run(ctx, refs)
	if result != nil {
		r.summarize(result)
	}
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		r.logger.Error("transfer finished with errors", "user", s.user, "error", err)
	}
	return nil
}

func (r *Runner) summarize(result *tasks.RunResult) {
	if len(result.Outcomes) > 0 {
		r.writePlain("\n")
		r.writePlainHeader("Transfer Complete")
	}
	for _, outcome := range result.Outcomes {
		r.writePlain("%s", formatter.OutcomeSummary(outcome))
	}
	for _, name := range result.Failed {
		r.writePlain("%s\n", ui.Styles.Err(fmt.Sprintf("Failed: %s", name)))
	}
	if result.ReportPath != "" {
		r.writePlain("%s\n", ui.Styles.Warn(fmt.Sprintf("Unmatched songs written to %s", result.ReportPath)))
	}
}
