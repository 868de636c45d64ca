package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/ymx/internal/formatter"
	"github.com/desertthunder/ymx/internal/repositories"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/urfave/cli/v3"
)

type historyEntry struct {
	ID            string    `json:"id"`
	User          string    `json:"user"`
	Playlist      string    `json:"playlist"`
	DestinationID string    `json:"destination_id,omitempty"`
	Total         int       `json:"total"`
	Matched       int       `json:"matched"`
	Unmatched     int       `json:"unmatched"`
	FailedChunks  int       `json:"failed_chunks"`
	CreatedAt     time.Time `json:"created_at"`
}

const historyRow = "%-36s %-12s %-30s %7s %7s %9s %-20s\n"

// History prints recorded transfers, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	db, err := shared.OpenHistory(config.Database)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("%w: database.path is empty", shared.ErrMissingConfig)
	}
	defer db.Close()

	records, err := repositories.NewTransferRepository(db).List(map[string]any{
		"user":  cmd.String("user"),
		"limit": cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		entries := make([]historyEntry, len(records))
		for i, rec := range records {
			entries[i] = historyEntry{
				ID: rec.ID(), User: rec.User, Playlist: rec.PlaylistName, DestinationID: rec.DestinationID,
				Total: rec.Total, Matched: rec.Matched, Unmatched: rec.Unmatched, FailedChunks: rec.FailedChunks,
				CreatedAt: rec.CreatedAt(),
			}
		}
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if cmd.Bool("csv") {
		data, err := formatter.HistoryToCSV(records)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	if len(records) == 0 {
		return r.writePlain("No transfers recorded.\n")
	}

	r.writePlain(historyRow, "ID", "User", "Playlist", "Total", "Matched", "Unmatched", "Created")
	for _, rec := range records {
		r.writePlain(historyRow,
			rec.ID(), rec.User, truncate(rec.PlaylistName, 30),
			fmt.Sprint(rec.Total), fmt.Sprint(rec.Matched), fmt.Sprint(rec.Unmatched),
			rec.CreatedAt().Local().Format(time.DateTime),
		)
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
