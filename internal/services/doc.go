// Package services implements the [SourceCatalog] and [DestinationCatalog] capabilities for Yandex Music and Spotify.
//
// Vendor response shapes never leave this package: every implementation maps its JSON (or SDK) types to
// [models.SourceTrack], [models.PlaylistRef] and [models.CandidateTrack] at the boundary.
//
// # Yandex Music Implementation
//
// [YandexService] talks to api.music.yandex.net directly with an "Authorization: OAuth <token>" header.
// Requests are paced by a [rate.Limiter]. Liked tracks are returned by the API as bare IDs and resolved
// through POST /tracks in batches of [YandexTrackBatchSize].
//
// # Spotify Implementation
//
// [SpotifyService] wraps [spotify.Client]. Search pages keep the SDK's [spotify.SearchResult] as their
// cursor so [SpotifyService.FetchNextPage] can follow the "next" link.
//
// [SpotifyAuth] builds the authorization-code flow with the playlist-modify-private scope and caches
// tokens per user in a [TokenCache].
//
// # Error Handling
//
// Services use sentinel errors from shared package:
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
//   - [shared.ErrNotAuthenticated] : no cached token for the user
//   - [shared.ErrNoMorePages] : search page has no continuation
package services
