package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ymx/internal/models"
)

var _ tea.Msg = playlistsFetchedMsg{}

// playlistsFetchedMsg carries the result of the initial playlist listing.
type playlistsFetchedMsg struct {
	refs []models.PlaylistRef
	err  error
}
