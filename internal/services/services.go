// package services defines the catalog capability interfaces for the source
// (Yandex Music) and destination (Spotify) services
package services

import (
	"context"

	"github.com/desertthunder/ymx/internal/models"
)

// SourceCatalog is the read-only side of a migration: the service whose playlists are copied.
type SourceCatalog interface {
	// Name returns the name of the service (e.g., "Yandex Music")
	Name() string

	// ListUserPlaylists returns the authenticated user's playlists in service order.
	ListUserPlaylists(ctx context.Context) ([]models.PlaylistRef, error)

	// ListPlaylistTracks returns the ordered tracks of the playlist owned by ownerID.
	ListPlaylistTracks(ctx context.Context, playlistID, ownerID string) ([]models.SourceTrack, error)

	// ListLikedTracks returns the user's liked-tracks collection.
	ListLikedTracks(ctx context.Context) ([]models.SourceTrack, error)
}

// DestinationCatalog is the writable side of a migration: the service that receives playlists.
type DestinationCatalog interface {
	// Name returns the name of the service (e.g., "Spotify")
	Name() string

	// CurrentUserID returns the ID of the authenticated user.
	CurrentUserID(ctx context.Context) (string, error)

	// CreatePlaylist creates an empty playlist and returns its ID.
	CreatePlaylist(ctx context.Context, ownerID, name string, public bool) (string, error)

	// Search returns the first page of tracks matching query, ordered by the service's relevance ranking.
	Search(ctx context.Context, query string, limit int) (*models.SearchPage, error)

	// FetchNextPage returns the page following page.
	// Returns [shared.ErrNoMorePages] when page has no continuation.
	FetchNextPage(ctx context.Context, page *models.SearchPage) (*models.SearchPage, error)

	// AddTracksToPlaylist appends uris to the playlist in order.
	AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error
}
