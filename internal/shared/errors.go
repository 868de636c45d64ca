package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrNoUsers            = fmt.Errorf("no users found in the configuration file")
	ErrUnknownUser        = fmt.Errorf("user not found in configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrNoMorePages        = fmt.Errorf("no more pages")

	// Transfer errors
	ErrFetchTracks    = fmt.Errorf("failed to fetch playlist tracks")
	ErrCreatePlaylist = fmt.Errorf("failed to create destination playlist")
	ErrSearchFailed   = fmt.Errorf("track search failed")
	ErrAddTracks      = fmt.Errorf("failed to add tracks to playlist")

	// Input validation errors
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrInvalidSelection = fmt.Errorf("invalid selection")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrInputClosed      = fmt.Errorf("input closed")
)
