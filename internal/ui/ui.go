package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ymx/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	PlaylistListView
	ConfirmView
	DoneView
)

// Lister returns the source playlists to choose from.
type Lister interface {
	Playlists(ctx context.Context) ([]models.PlaylistRef, error)
}

// Model is the playlist picker state.
type Model struct {
	ctx       context.Context
	view      ViewState
	lister    Lister
	liked     bool // Offer the liked-songs collection as the first entry
	width     int
	height    int
	list      list.Model
	refs      []models.PlaylistRef
	order     []int // Selected indices into refs, in selection order
	confirmed bool
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a picker over lister. With liked set, the liked-songs collection is listed first.
func NewModel(ctx context.Context, lister Lister, liked bool) *Model {
	return &Model{
		ctx:    ctx,
		view:   LoadingView,
		lister: lister,
		liked:  liked,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Selection returns the confirmed playlists in the order they were picked, or nil if the user quit.
func (m *Model) Selection() []models.PlaylistRef {
	if !m.confirmed {
		return nil
	}
	refs := make([]models.PlaylistRef, len(m.order))
	for i, idx := range m.order {
		refs[i] = m.refs[idx]
	}
	return refs
}

// Err returns the listing error, if any.
func (m *Model) Err() error {
	return m.err
}

// Init fetches the playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == PlaylistListView || m.view == ConfirmView {
			m.list.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = DoneView
			return m, tea.Quit
		}
		m.setPlaylists(msg.refs)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView, DoneView:
			if key.Matches(msg, m.keys.quit) {
				m.view = DoneView
				return m, tea.Quit
			}
			return m, nil
		case PlaylistListView:
			return m.handleListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}
	}

	if m.view == PlaylistListView {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setPlaylists(refs []models.PlaylistRef) {
	if m.liked {
		refs = append([]models.PlaylistRef{models.LikedSongs()}, refs...)
	}
	m.refs = refs

	items := make([]list.Item, len(refs))
	for i, ref := range refs {
		items[i] = playlistItem{ref: ref}
	}
	m.list = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.list.Title = "Yandex Music Playlists"
	m.list.SetShowHelp(false)
	if m.width > 0 {
		m.list.SetSize(m.width-4, m.height-8)
	}
	m.view = PlaylistListView
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.view = DoneView
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		if len(m.refs) > 0 {
			m.toggle(m.list.Index())
		}
		return m, nil
	case key.Matches(msg, m.keys.all):
		m.toggleAll()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if len(m.order) == 0 && len(m.refs) > 0 {
			m.toggle(m.list.Index())
		}
		if len(m.order) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes), key.Matches(msg, m.keys.enter):
		m.confirmed = true
		m.view = DoneView
		return m, tea.Quit
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		return m, nil
	case key.Matches(msg, m.keys.quit):
		m.view = DoneView
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) toggle(idx int) {
	if pos := slices.Index(m.order, idx); pos >= 0 {
		m.order = slices.Delete(m.order, pos, pos+1)
	} else {
		m.order = append(m.order, idx)
	}
	m.list.SetItem(idx, playlistItem{ref: m.refs[idx], selected: slices.Contains(m.order, idx)})
}

func (m *Model) toggleAll() {
	if len(m.order) == len(m.refs) {
		m.order = nil
	} else {
		for i := range m.refs {
			if !slices.Contains(m.order, i) {
				m.order = append(m.order, i)
			}
		}
	}
	for i, ref := range m.refs {
		m.list.SetItem(i, playlistItem{ref: ref, selected: slices.Contains(m.order, i)})
	}
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		refs, err := m.lister.Playlists(m.ctx)
		return playlistsFetchedMsg{refs: refs, err: err}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return Styles.Help("Fetching playlists from Yandex Music...")
	case PlaylistListView:
		return m.renderList()
	case ConfirmView:
		return m.renderConfirm()
	default:
		if m.err != nil {
			return Styles.Err(fmt.Sprintf("Error: %v", m.err)) + "\n"
		}
		return ""
	}
}

func (m *Model) renderList() string {
	status := Styles.Help(fmt.Sprintf("%d selected", len(m.order)))
	return fmt.Sprintf("%s\n%s\n\n%s", m.list.View(), status, m.help.View(m.keys))
}

func (m *Model) renderConfirm() string {
	title := Styles.Title(fmt.Sprintf("Transfer %d playlists to Spotify?", len(m.order)))

	var b strings.Builder
	for i, idx := range m.order {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.refs[idx].Name)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}
