package testing

import (
	"context"
	"fmt"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
)

// MockSource is a scripted [services.SourceCatalog].
type MockSource struct {
	Playlists    []models.PlaylistRef
	Tracks       map[string][]models.SourceTrack // Keyed by playlist ID
	Liked        []models.SourceTrack
	PlaylistsErr error
	TracksErr    map[string]error // Keyed by playlist ID
	LikedErr     error

	ListCalls  int
	TrackCalls []string
}

func (m *MockSource) Name() string { return "mock source" }

func (m *MockSource) ListUserPlaylists(ctx context.Context) ([]models.PlaylistRef, error) {
	m.ListCalls++
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}
	return m.Playlists, nil
}

func (m *MockSource) ListPlaylistTracks(ctx context.Context, playlistID, ownerID string) ([]models.SourceTrack, error) {
	m.TrackCalls = append(m.TrackCalls, playlistID)
	if err := m.TracksErr[playlistID]; err != nil {
		return nil, err
	}
	tracks, ok := m.Tracks[playlistID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	return tracks, nil
}

func (m *MockSource) ListLikedTracks(ctx context.Context) ([]models.SourceTrack, error) {
	if m.LikedErr != nil {
		return nil, m.LikedErr
	}
	return m.Liked, nil
}

// SearchCall records one Search invocation.
type SearchCall struct {
	Query string
	Limit int
}

// CreateCall records one CreatePlaylist invocation.
type CreateCall struct {
	OwnerID string
	Name    string
	Public  bool
}

// AddCall records one AddTracksToPlaylist invocation.
type AddCall struct {
	PlaylistID string
	URIs       []string
}

// MockDestination is a recording [services.DestinationCatalog].
//
// Results maps a query to its pages; the first page is returned by Search and later pages by FetchNextPage.
// Queries without an entry return an empty page.
type MockDestination struct {
	UserID     string
	Results    map[string][][]models.CandidateTrack
	SearchErr  map[string]error
	CreateErr  map[string]error // Keyed by playlist name
	AddErrAt   map[int]error    // Keyed by zero-based add call index
	UserErr    error
	NextPageOK bool // When false, pages never expose a continuation

	Searches  []SearchCall
	Creates   []CreateCall
	Adds      []AddCall
	NextCalls int
}

// NewMockDestination creates a MockDestination with pagination enabled.
func NewMockDestination() *MockDestination {
	return &MockDestination{
		UserID:     "dest-user",
		Results:    map[string][][]models.CandidateTrack{},
		NextPageOK: true,
	}
}

// On registers the result pages for query.
func (m *MockDestination) On(query string, pages ...[]models.CandidateTrack) *MockDestination {
	if m.Results == nil {
		m.Results = map[string][][]models.CandidateTrack{}
	}
	m.Results[query] = pages
	return m
}

func (m *MockDestination) Name() string { return "mock destination" }

func (m *MockDestination) CurrentUserID(ctx context.Context) (string, error) {
	if m.UserErr != nil {
		return "", m.UserErr
	}
	return m.UserID, nil
}

func (m *MockDestination) CreatePlaylist(ctx context.Context, ownerID, name string, public bool) (string, error) {
	m.Creates = append(m.Creates, CreateCall{OwnerID: ownerID, Name: name, Public: public})
	if err := m.CreateErr[name]; err != nil {
		return "", err
	}
	return fmt.Sprintf("dest-%d", len(m.Creates)), nil
}

func (m *MockDestination) Search(ctx context.Context, query string, limit int) (*models.SearchPage, error) {
	m.Searches = append(m.Searches, SearchCall{Query: query, Limit: limit})
	if err := m.SearchErr[query]; err != nil {
		return nil, err
	}
	return m.page(query, limit, 0), nil
}

func (m *MockDestination) FetchNextPage(ctx context.Context, page *models.SearchPage) (*models.SearchPage, error) {
	m.NextCalls++
	idx, ok := page.Cursor.(int)
	if !ok {
		return nil, shared.ErrNoMorePages
	}
	return m.page(page.Query, page.Limit, idx), nil
}

func (m *MockDestination) AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error {
	idx := len(m.Adds)
	m.Adds = append(m.Adds, AddCall{PlaylistID: playlistID, URIs: append([]string(nil), uris...)})
	return m.AddErrAt[idx]
}

// Queries returns the recorded search queries in call order.
func (m *MockDestination) Queries() []string {
	queries := make([]string, len(m.Searches))
	for i, s := range m.Searches {
		queries[i] = s.Query
	}
	return queries
}

func (m *MockDestination) page(query string, limit, idx int) *models.SearchPage {
	page := &models.SearchPage{Query: query, Limit: limit}
	pages := m.Results[query]
	if idx >= len(pages) {
		return page
	}

	items := pages[idx]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	page.Items = items
	if m.NextPageOK && idx+1 < len(pages) {
		page.Cursor = idx + 1
	}
	return page
}

// Candidate builds a [models.CandidateTrack] with a spotify-style URI from id.
func Candidate(id, name, artist, album string) models.CandidateTrack {
	return models.CandidateTrack{
		URI:     "spotify:track:" + id,
		Name:    name,
		Artists: []string{artist},
		Album:   album,
	}
}

// Track builds a [models.SourceTrack] with a single artist.
func Track(title, artist string) models.SourceTrack {
	return models.SourceTrack{Title: title, Artists: []string{artist}}
}
