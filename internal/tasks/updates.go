package tasks

import (
	"fmt"

	"github.com/desertthunder/ymx/internal/models"
)

// ProgressUpdate represents a progress event during a transfer run.
//
// Sent to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylists Phase = iota
	FetchTracks
	CreatePlaylist
	MatchTracks
	AddTracks
	TransferPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchTracks:
		return "fetch_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case MatchTracks:
		return "match_tracks"
	case AddTracks:
		return "add_tracks"
	case TransferPlaylist:
		return "transfer_playlist"
	default:
		return ""
	}
}

func fetchPlaylistsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    1,
		Total:   1,
		Message: "Fetching playlists from Yandex Music...",
	}
}

func fetchTracksUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching tracks: %s...", step, total, name),
	}
}

func createPlaylistUpdate(name, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", name, id),
		Data:    id,
	}
}

func matchTrackUpdate(step, total int, tr models.SourceTrack, result models.MatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s: %s", step, total, tr.PrimaryArtist(), tr.Title, result.Kind),
		Data:    result,
	}
}

func addTracksUpdate(step, total, size int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Adding %d tracks...", step, total, size),
	}
}

func transferCompletedUpdate(step, total int, outcome *models.TransferOutcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TransferPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d/%d matched)", step, total, outcome.PlaylistName, len(outcome.TrackURIs), outcome.Total()),
		Data:    outcome,
	}
}

func transferFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TransferPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
