// Package ui implements the `ymx tui` playlist picker using bubbletea's Elm architecture.
//
// The picker moves through three views:
//  1. [LoadingView] : playlists are fetched from the source catalog
//  2. [PlaylistListView] : toggle playlists with space or x (a toggles all)
//  3. [ConfirmView] : confirm the selection with y or enter
//
// After the program exits, [Model.Selection] returns the confirmed playlists in the order they were picked.
// The transfer itself runs outside the TUI so the disambiguation prompt can own the terminal.
//
// [Styles] is the shared lipgloss palette, also used by the CLI for headings and notices.
package ui
