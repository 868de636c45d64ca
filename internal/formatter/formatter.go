// package formatter renders transfer data as plain text tables, reports and CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ymx/internal/models"
)

// DefaultReportPath is the unmatched report filename used when none is configured.
const DefaultReportPath = "not_found_songs.log"

var tableRule = strings.Repeat("-", 154)

const tableRow = "%-4s %-50s %-50s %-50s\n"

// CandidateTable writes a numbered table of search candidates (#, Song, Artists, Album).
func CandidateTable(w io.Writer, items []models.CandidateTrack) error {
	var buf bytes.Buffer

	buf.WriteString(tableRule + "\n")
	fmt.Fprintf(&buf, tableRow, "#", "Song", "Artists", "Album")
	buf.WriteString(tableRule + "\n")
	for i, item := range items {
		fmt.Fprintf(&buf, tableRow, strconv.Itoa(i+1), item.Name, item.ArtistNames(), item.Album)
	}
	buf.WriteString(tableRule + "\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// PlaylistList writes playlist names as a 1-based numbered list.
func PlaylistList(w io.Writer, refs []models.PlaylistRef) error {
	var buf bytes.Buffer
	for i, ref := range refs {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, ref.Name)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// UnmatchedReport aggregates the unmatched entries of every outcome, one "<title> by <artist>" line each.
func UnmatchedReport(outcomes []*models.TransferOutcome) []byte {
	var buf bytes.Buffer
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		for _, u := range o.Unmatched {
			buf.WriteString(u.String())
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// WriteUnmatchedReport overwrites the file at path with [UnmatchedReport] of outcomes.
//
// Defaults to [DefaultReportPath] as the filename.
func WriteUnmatchedReport(path string, outcomes []*models.TransferOutcome) (string, error) {
	if path == "" {
		path = DefaultReportPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, UnmatchedReport(outcomes), 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// OutcomeSummary renders a short plain text summary of one transfer.
func OutcomeSummary(o *models.TransferOutcome) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", o.PlaylistName)
	if o.DestinationID != "" {
		fmt.Fprintf(&buf, "Destination: %s\n", o.DestinationID)
	}
	fmt.Fprintf(&buf, "Matched: %d/%d\n", len(o.TrackURIs), o.Total())
	if len(o.Unmatched) > 0 {
		fmt.Fprintf(&buf, "Unmatched: %d", len(o.Unmatched))
		if o.TrackErrors > 0 {
			fmt.Fprintf(&buf, " (%d errors)", o.TrackErrors)
		}
		buf.WriteByte('\n')
	}
	if o.FailedChunks > 0 {
		fmt.Fprintf(&buf, "Failed chunks: %d\n", o.FailedChunks)
	}
	return buf.String()
}

// HistoryToCSV converts transfer records to CSV with columns: ID, User, Playlist, Destination, Total, Matched, Unmatched, FailedChunks, CreatedAt
func HistoryToCSV(records []*models.TransferRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "User", "Playlist", "Destination", "Total", "Matched", "Unmatched", "FailedChunks", "CreatedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		record := []string{
			r.ID(),
			r.User,
			r.PlaylistName,
			r.DestinationID,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Matched),
			strconv.Itoa(r.Unmatched),
			strconv.Itoa(r.FailedChunks),
			r.CreatedAt().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
