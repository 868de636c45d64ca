package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ymx/internal/models"
	th "github.com/desertthunder/ymx/internal/testing"
)

func TestCandidateTable(t *testing.T) {
	t.Run("Renders Header And Rows", func(t *testing.T) {
		var buf bytes.Buffer
		items := []models.CandidateTrack{
			th.Candidate("a1", "Группа крови", "Кино", "Группа крови"),
			{URI: "spotify:track:b2", Name: "Blood Type", Artists: []string{"Kino", "Viktor Tsoi"}, Album: "Blood Type"},
		}

		if err := CandidateTable(&buf, items); err != nil {
			t.Fatalf("CandidateTable failed: %v", err)
		}

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) != 6 {
			t.Fatalf("expected 6 lines (3 rules, header, 2 rows), got %d:\n%s", len(lines), buf.String())
		}
		if lines[0] != tableRule || lines[2] != tableRule || lines[5] != tableRule {
			t.Errorf("expected rule lines around header and rows")
		}
		if !strings.HasPrefix(lines[1], "#    Song") {
			t.Errorf("unexpected header: %q", lines[1])
		}
		if !strings.HasPrefix(lines[3], "1    Группа крови") {
			t.Errorf("unexpected first row: %q", lines[3])
		}
		if !strings.Contains(lines[4], "Kino, Viktor Tsoi") {
			t.Errorf("expected joined artists in second row: %q", lines[4])
		}
	})

	t.Run("Pads By Rune", func(t *testing.T) {
		var buf bytes.Buffer
		if err := CandidateTable(&buf, []models.CandidateTrack{th.Candidate("x", "Кукушка", "Кино", "")}); err != nil {
			t.Fatalf("CandidateTable failed: %v", err)
		}
		row := strings.Split(buf.String(), "\n")[3]
		song := []rune(row)[5:55]
		if strings.TrimRight(string(song), " ") != "Кукушка" {
			t.Errorf("expected song column padded to 50 runes, got %q", string(song))
		}
	})

	t.Run("Write Error", func(t *testing.T) {
		if err := CandidateTable(&th.FWriter{}, nil); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestPlaylistList(t *testing.T) {
	var buf bytes.Buffer
	refs := []models.PlaylistRef{{Name: "Road Trip"}, {Name: "Кино"}}

	if err := PlaylistList(&buf, refs); err != nil {
		t.Fatalf("PlaylistList failed: %v", err)
	}
	if buf.String() != "1. Road Trip\n2. Кино\n" {
		t.Errorf("unexpected list: %q", buf.String())
	}
}

func TestUnmatchedReport(t *testing.T) {
	outcomes := []*models.TransferOutcome{
		{PlaylistName: "A", Unmatched: []models.UnmatchedTrack{{Title: "Song 1", Artist: "Artist 1"}}},
		nil,
		{PlaylistName: "B"},
		{PlaylistName: "C", Unmatched: []models.UnmatchedTrack{
			{Title: "Кукушка", Artist: "Кино", Reason: models.ReasonSkipped},
			{Title: "Song 3", Artist: "Artist 3", Reason: models.ReasonError},
		}},
	}

	got := string(UnmatchedReport(outcomes))
	want := "Song 1 by Artist 1\nКукушка by Кино\nSong 3 by Artist 3\n"
	if got != want {
		t.Errorf("UnmatchedReport() = %q, want %q", got, want)
	}

	if len(UnmatchedReport(nil)) != 0 {
		t.Error("expected empty report for no outcomes")
	}
}

func TestWriteUnmatchedReport(t *testing.T) {
	t.Run("Overwrites Previous Report", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports", "not_found_songs.log")

		first := []*models.TransferOutcome{{Unmatched: []models.UnmatchedTrack{{Title: "Old", Artist: "Run"}}}}
		if _, err := WriteUnmatchedReport(path, first); err != nil {
			t.Fatalf("first write failed: %v", err)
		}

		second := []*models.TransferOutcome{{Unmatched: []models.UnmatchedTrack{{Title: "New", Artist: "Run"}}}}
		got, err := WriteUnmatchedReport(path, second)
		if err != nil {
			t.Fatalf("second write failed: %v", err)
		}
		if got != path {
			t.Errorf("expected returned path %s, got %s", path, got)
		}

		content := th.MustReadFile(t, path)
		if content != "New by Run\n" {
			t.Errorf("expected overwritten report, got %q", content)
		}
	})

	t.Run("Default Path", func(t *testing.T) {
		t.Chdir(t.TempDir())

		path, err := WriteUnmatchedReport("", []*models.TransferOutcome{{Unmatched: []models.UnmatchedTrack{{Title: "A", Artist: "B"}}}})
		if err != nil {
			t.Fatalf("WriteUnmatchedReport failed: %v", err)
		}
		if path != DefaultReportPath {
			t.Errorf("expected default path, got %s", path)
		}
		th.AssertFileExists(t, DefaultReportPath)
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteUnmatchedReport(filepath.Join(blocker, "report.log"), nil); err == nil {
			t.Error("expected error writing beneath a regular file")
		}
	})
}

func TestOutcomeSummary(t *testing.T) {
	o := &models.TransferOutcome{
		PlaylistName:  "Road Trip",
		DestinationID: "pl-1",
		TrackURIs:     []string{"a", "b"},
		Unmatched:     []models.UnmatchedTrack{{Title: "c", Artist: "d", Reason: models.ReasonError}},
		TrackErrors:   1,
		FailedChunks:  1,
	}

	got := OutcomeSummary(o)
	for _, want := range []string{"Playlist: Road Trip", "Destination: pl-1", "Matched: 2/3", "Unmatched: 1 (1 errors)", "Failed chunks: 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}

	clean := OutcomeSummary(&models.TransferOutcome{PlaylistName: "Clean", TrackURIs: []string{"a"}})
	if strings.Contains(clean, "Unmatched") || strings.Contains(clean, "Failed") {
		t.Errorf("expected no failure lines for clean outcome:\n%s", clean)
	}
}

func TestHistoryToCSV(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	record := models.RestoreTransferRecord("rec-1", created, models.TransferRecord{
		User: "alice", PlaylistName: "Road Trip", DestinationID: "pl-1", Total: 3, Matched: 2, Unmatched: 1,
	})

	data, err := HistoryToCSV([]*models.TransferRecord{record})
	if err != nil {
		t.Fatalf("HistoryToCSV failed: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "ID,User,Playlist,Destination,Total,Matched,Unmatched,FailedChunks,CreatedAt") {
		t.Errorf("CSV missing headers, got: %s", output)
	}
	if !strings.Contains(output, "rec-1,alice,Road Trip,pl-1,3,2,1,0,2026-01-02T03:04:05Z") {
		t.Errorf("CSV missing record, got: %s", output)
	}
}
