// Spotify Web API implementation of [DestinationCatalog]
//
// Wraps github.com/zmb3/spotify/v2; see https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/zmb3/spotify/v2"
)

const spotifyTrackURIPrefix = "spotify:track:"

// SpotifyService implements [DestinationCatalog] on top of a [spotify.Client].
type SpotifyService struct {
	client *spotify.Client
	userID string
}

// NewSpotifyService wraps an authenticated [spotify.Client].
func NewSpotifyService(client *spotify.Client) *SpotifyService {
	return &SpotifyService{client: client}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// CurrentUserID returns the authenticated user's ID, caching it after the first call.
func (s *SpotifyService) CurrentUserID(ctx context.Context) (string, error) {
	if s.userID != "" {
		return s.userID, nil
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: current user: %v", shared.ErrAPIRequest, err)
	}
	s.userID = user.ID
	return s.userID, nil
}

// CreatePlaylist creates an empty, non-collaborative playlist for ownerID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, ownerID, name string, public bool) (string, error) {
	playlist, err := s.client.CreatePlaylistForUser(ctx, ownerID, name, "", public, false)
	if err != nil {
		return "", fmt.Errorf("%w: create playlist %q: %v", shared.ErrAPIRequest, name, err)
	}
	return string(playlist.ID), nil
}

// Search runs a track search and returns the first page.
func (s *SpotifyService) Search(ctx context.Context, query string, limit int) (*models.SearchPage, error) {
	result, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", shared.ErrAPIRequest, query, err)
	}
	return newSearchPage(query, limit, result), nil
}

// FetchNextPage follows the continuation of page.
//
// Returns [shared.ErrNoMorePages] when the page has none.
func (s *SpotifyService) FetchNextPage(ctx context.Context, page *models.SearchPage) (*models.SearchPage, error) {
	if !page.HasNext() {
		return nil, shared.ErrNoMorePages
	}

	raw, ok := page.Cursor.(*spotify.SearchResult)
	if !ok || raw.Tracks == nil {
		return nil, fmt.Errorf("%w: cursor %T is not a spotify search result", shared.ErrInvalidArgument, page.Cursor)
	}

	// Re-issue the search at the next offset so each page decodes into its own result.
	offset := int(raw.Tracks.Offset) + len(raw.Tracks.Tracks)
	next, err := s.client.Search(ctx, page.Query, spotify.SearchTypeTrack, spotify.Limit(page.Limit), spotify.Offset(offset))
	if err != nil {
		if errors.Is(err, spotify.ErrNoMorePages) {
			return nil, shared.ErrNoMorePages
		}
		return nil, fmt.Errorf("%w: next page for %q: %v", shared.ErrAPIRequest, page.Query, err)
	}
	return newSearchPage(page.Query, page.Limit, next), nil
}

// AddTracksToPlaylist appends uris to the playlist in a single request.
//
// Callers chunk to at most [shared.MaxChunkSize] URIs.
func (s *SpotifyService) AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) > shared.MaxChunkSize {
		return fmt.Errorf("%w: at most %d tracks per request", shared.ErrInvalidArgument, shared.MaxChunkSize)
	}

	ids := make([]spotify.ID, len(uris))
	for i, uri := range uris {
		ids[i] = spotify.ID(strings.TrimPrefix(uri, spotifyTrackURIPrefix))
	}

	if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
		return fmt.Errorf("%w: add %d tracks: %v", shared.ErrAddTracks, len(uris), err)
	}
	return nil
}

// newSearchPage maps the track page of a [spotify.SearchResult] to a [models.SearchPage].
//
// The cursor is left as an untyped nil when Spotify reports no next link
// or the page reaches the reported total.
func newSearchPage(query string, limit int, result *spotify.SearchResult) *models.SearchPage {
	page := &models.SearchPage{Query: query, Limit: limit}
	if result == nil || result.Tracks == nil {
		return page
	}

	raw := result.Tracks
	page.Items = make([]models.CandidateTrack, 0, len(raw.Tracks))
	for _, t := range raw.Tracks {
		artists := make([]string, len(t.Artists))
		for i, a := range t.Artists {
			artists[i] = a.Name
		}
		page.Items = append(page.Items, models.CandidateTrack{
			URI:     string(t.URI),
			Name:    t.Name,
			Artists: artists,
			Album:   t.Album.Name,
		})
	}

	if raw.Next != "" && len(raw.Tracks) > 0 && int(raw.Offset)+len(raw.Tracks) < int(raw.Total) {
		page.Cursor = result
	}
	return page
}
