package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ymx/internal/models"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [models.PlaylistRef] to implement [list.Item].
type playlistItem struct {
	ref      models.PlaylistRef
	selected bool
}

func (i playlistItem) FilterValue() string { return i.ref.Name }

func (i playlistItem) Title() string {
	if i.selected {
		return Styles.selected.Render("[x] " + i.ref.Name)
	}
	return "[ ] " + i.ref.Name
}

func (i playlistItem) Description() string {
	if i.ref.Liked {
		return "liked songs collection"
	}
	return fmt.Sprintf("%d tracks", i.ref.TrackCount)
}
