// Yandex Music API implementation of [SourceCatalog]
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultYandexBaseURL = "https://api.music.yandex.net"

	yandexAccountStatusPath = "/account/status"
	yandexPlaylistsListPath = "/users/%s/playlists/list"
	yandexPlaylistPath      = "/users/%s/playlists/%s"
	yandexLikedTracksPath   = "/users/%s/likes/tracks"
	yandexTracksPath        = "/tracks"
)

// YandexTrackBatchSize is the number of track IDs resolved per POST /tracks call.
const YandexTrackBatchSize = 100

// YandexArtist represents an artist in Yandex Music responses.
type YandexArtist struct {
	Name string `json:"name"`
}

// YandexAlbum represents an album in Yandex Music responses.
type YandexAlbum struct {
	Title string `json:"title"`
}

// YandexTrack represents a track in Yandex Music responses.
type YandexTrack struct {
	Title   string         `json:"title"`
	Artists []YandexArtist `json:"artists"`
	Albums  []YandexAlbum  `json:"albums"`
}

// YandexError is returned for non-2xx responses.
type YandexError struct {
	Status  int
	Message string
}

func (e *YandexError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: yandex music status %d: %s", shared.ErrAPIRequest, e.Status, e.Message)
	}
	return fmt.Sprintf("%v: yandex music status %d", shared.ErrAPIRequest, e.Status)
}

func (e *YandexError) Unwrap() error { return shared.ErrAPIRequest }

type yandexOwner struct {
	UID   json.Number `json:"uid"`
	Login string      `json:"login"`
}

type yandexTrackShort struct {
	ID    json.RawMessage `json:"id"` // Number or "track:album" string
	Track *YandexTrack    `json:"track"`
}

// unavailableTitle names a track that came back without metadata so it can still be found in reports.
func (s yandexTrackShort) unavailableTitle() string {
	id := strings.Trim(string(s.ID), `"`)
	if id == "" || id == "null" {
		return "unavailable track"
	}
	return "unavailable track " + id
}

// YandexPlaylist represents a playlist in Yandex Music responses.
type YandexPlaylist struct {
	Kind       json.Number        `json:"kind"`
	Title      string             `json:"title"`
	Owner      yandexOwner        `json:"owner"`
	TrackCount int                `json:"trackCount"`
	Tracks     []yandexTrackShort `json:"tracks"`
}

type yandexLikedTrack struct {
	ID      string `json:"id"`
	AlbumID string `json:"albumId"`
}

// YandexService implements [SourceCatalog] for the Yandex Music API.
type YandexService struct {
	baseURL    string
	token      string
	uid        string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewYandexService creates a Yandex Music client authenticated with an OAuth access token.
//
// A non-positive rps disables request pacing.
func NewYandexService(baseURL, token string, rps float64, client *http.Client) *YandexService {
	if baseURL == "" {
		baseURL = defaultYandexBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &YandexService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		limiter:    rate.NewLimiter(limit, 1),
		httpClient: client,
	}
}

func (y *YandexService) Name() string {
	return "Yandex Music"
}

// Authenticate verifies the token against /account/status and remembers the account UID.
func (y *YandexService) Authenticate(ctx context.Context) error {
	if y.token == "" {
		return fmt.Errorf("%w: yandex access token", shared.ErrMissingCredentials)
	}

	var resp struct {
		Result struct {
			Account struct {
				UID   json.Number `json:"uid"`
				Login string      `json:"login"`
			} `json:"account"`
		} `json:"result"`
	}
	if err := y.doRequest(ctx, http.MethodGet, yandexAccountStatusPath, nil, &resp); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	uid := resp.Result.Account.UID.String()
	if uid == "" || uid == "0" {
		return fmt.Errorf("%w: account status returned no uid", shared.ErrAuthFailed)
	}
	y.uid = uid
	return nil
}

// UID returns the account UID resolved by [YandexService.Authenticate].
func (y *YandexService) UID() string {
	return y.uid
}

func (y *YandexService) doRequest(ctx context.Context, method, endpoint string, form url.Values, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "OAuth "+y.token)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Name    string `json:"name"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &YandexError{Status: resp.StatusCode, Message: errResp.Error.Message}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (y *YandexService) requireUID() error {
	if y.uid == "" {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}
	return nil
}

// ListUserPlaylists retrieves the playlists of the authenticated account.
//
// Calls GET /users/{uid}/playlists/list
func (y *YandexService) ListUserPlaylists(ctx context.Context) ([]models.PlaylistRef, error) {
	if err := y.requireUID(); err != nil {
		return nil, err
	}

	var resp struct {
		Result []YandexPlaylist `json:"result"`
	}
	if err := y.doRequest(ctx, http.MethodGet, fmt.Sprintf(yandexPlaylistsListPath, y.uid), nil, &resp); err != nil {
		return nil, err
	}

	refs := make([]models.PlaylistRef, 0, len(resp.Result))
	for _, p := range resp.Result {
		owner := p.Owner.UID.String()
		if owner == "" {
			owner = y.uid
		}
		refs = append(refs, models.PlaylistRef{
			ID:         p.Kind.String(),
			OwnerID:    owner,
			Name:       p.Title,
			TrackCount: p.TrackCount,
		})
	}
	return refs, nil
}

// ListPlaylistTracks retrieves the tracks of playlist kind playlistID owned by ownerID.
//
// Calls GET /users/{owner}/playlists/{kind}
func (y *YandexService) ListPlaylistTracks(ctx context.Context, playlistID, ownerID string) ([]models.SourceTrack, error) {
	if ownerID == "" {
		if err := y.requireUID(); err != nil {
			return nil, err
		}
		ownerID = y.uid
	}

	var resp struct {
		Result YandexPlaylist `json:"result"`
	}
	endpoint := fmt.Sprintf(yandexPlaylistPath, url.PathEscape(ownerID), url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		var yerr *YandexError
		if errors.As(err, &yerr) && yerr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return nil, err
	}

	// Unavailable tracks come back without metadata. They keep a placeholder
	// title and no artists, so the transfer records them as malformed.
	tracks := make([]models.SourceTrack, len(resp.Result.Tracks))
	for i, item := range resp.Result.Tracks {
		if item.Track != nil {
			tracks[i] = item.Track.toSourceTrack()
		} else {
			tracks[i] = models.SourceTrack{Title: item.unavailableTitle()}
		}
	}
	return tracks, nil
}

// ListLikedTracks retrieves the liked-tracks collection of the authenticated account.
//
// Calls GET /users/{uid}/likes/tracks for IDs, then POST /tracks to resolve metadata.
func (y *YandexService) ListLikedTracks(ctx context.Context) ([]models.SourceTrack, error) {
	if err := y.requireUID(); err != nil {
		return nil, err
	}

	var resp struct {
		Result struct {
			Library struct {
				Tracks []yandexLikedTrack `json:"tracks"`
			} `json:"library"`
		} `json:"result"`
	}
	if err := y.doRequest(ctx, http.MethodGet, fmt.Sprintf(yandexLikedTracksPath, y.uid), nil, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Result.Library.Tracks))
	for _, t := range resp.Result.Library.Tracks {
		if t.AlbumID != "" {
			ids = append(ids, t.ID+":"+t.AlbumID)
		} else {
			ids = append(ids, t.ID)
		}
	}

	tracks := make([]models.SourceTrack, 0, len(ids))
	for start := 0; start < len(ids); start += YandexTrackBatchSize {
		end := min(start+YandexTrackBatchSize, len(ids))
		batch, err := y.Tracks(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to resolve liked tracks %d-%d: %w", start+1, end, err)
		}
		for _, t := range batch {
			tracks = append(tracks, t.toSourceTrack())
		}
	}
	return tracks, nil
}

// Tracks resolves full track metadata for up to [YandexTrackBatchSize] IDs.
//
// Calls POST /tracks with form field track-ids
func (y *YandexService) Tracks(ctx context.Context, ids []string) ([]YandexTrack, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > YandexTrackBatchSize {
		return nil, fmt.Errorf("%w: maximum %d track IDs allowed", shared.ErrInvalidArgument, YandexTrackBatchSize)
	}

	var resp struct {
		Result []YandexTrack `json:"result"`
	}
	form := url.Values{"track-ids": {strings.Join(ids, ",")}}
	if err := y.doRequest(ctx, http.MethodPost, yandexTracksPath, form, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// toSourceTrack maps the vendor track to [models.SourceTrack].
func (t *YandexTrack) toSourceTrack() models.SourceTrack {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a.Name != "" {
			artists = append(artists, a.Name)
		}
	}

	var album string
	if len(t.Albums) > 0 {
		album = t.Albums[0].Title
	}

	return models.SourceTrack{Title: t.Title, Artists: artists, Album: album}
}
