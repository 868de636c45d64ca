package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/desertthunder/ymx/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const defaultSpotifyRedirectURI = "http://127.0.0.1:8080/callback"

// TokenCache stores one user's Spotify OAuth token as JSON on disk.
type TokenCache struct {
	path string
}

// NewTokenCache creates a TokenCache backed by the file at path.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Path returns the file path where the token is stored.
func (c *TokenCache) Path() string {
	return c.path
}

// Load reads the cached token. Returns (nil, nil) if no token has been saved.
func (c *TokenCache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// Save writes token to disk with owner-only permissions.
func (c *TokenCache) Save(token *oauth2.Token) error {
	if token == nil {
		return errors.New("cannot save nil token")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Delete removes the cached token. Missing files are not an error.
func (c *TokenCache) Delete() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// SpotifyAuth runs the authorization-code flow for one configured user.
type SpotifyAuth struct {
	auth        *spotifyauth.Authenticator
	cache       *TokenCache
	redirectURI string
}

// NewSpotifyAuth builds an authenticator from a user's credentials.
//
// The redirect URI defaults to http://127.0.0.1:8080/callback.
func NewSpotifyAuth(user *shared.UserConfig, cache *TokenCache) (*SpotifyAuth, error) {
	if user.SpotifyClientID == "" || user.SpotifyClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client id and secret for user %s", shared.ErrMissingCredentials, user.Name)
	}

	redirectURI := user.SpotifyRedirectURI
	if redirectURI == "" {
		redirectURI = defaultSpotifyRedirectURI
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(user.SpotifyClientID),
		spotifyauth.WithClientSecret(user.SpotifyClientSecret),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(spotifyauth.ScopePlaylistModifyPrivate),
	)

	return &SpotifyAuth{auth: auth, cache: cache, redirectURI: redirectURI}, nil
}

// RedirectURI returns the configured OAuth callback URL.
func (a *SpotifyAuth) RedirectURI() string {
	return a.redirectURI
}

// AuthURL returns the Spotify consent page URL for state.
func (a *SpotifyAuth) AuthURL(state string) string {
	return a.auth.AuthURL(state)
}

// Exchange trades an authorization code for a token and caches it.
func (a *SpotifyAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.auth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if err := a.cache.Save(token); err != nil {
		return nil, err
	}
	return token, nil
}

// HTTPClient returns an auto-refreshing HTTP client for the cached token.
//
// Returns [shared.ErrNotAuthenticated] when no token is cached.
func (a *SpotifyAuth) HTTPClient(ctx context.Context) (*http.Client, error) {
	token, err := a.cache.Load()
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fmt.Errorf("%w: run `ymx auth` first", shared.ErrNotAuthenticated)
	}
	return a.auth.Client(ctx, token), nil
}

// Client returns an authenticated [spotify.Client] for the cached token.
func (a *SpotifyAuth) Client(ctx context.Context) (*spotify.Client, error) {
	httpClient, err := a.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	return spotify.New(httpClient, spotify.WithRetry(true)), nil
}

// Persist saves the client's current (possibly refreshed) token.
func (a *SpotifyAuth) Persist(client *spotify.Client) error {
	token, err := client.Token()
	if err != nil {
		return fmt.Errorf("failed to read refreshed token: %w", err)
	}
	return a.cache.Save(token)
}
