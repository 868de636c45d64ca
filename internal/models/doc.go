// Package models defines domain entities and persistence interfaces for the ymx playlist migration tool.
//
// The package contains two categories of types:
//
// 1. Catalog entities: lightweight structs mapped from vendor responses at the service boundary
//   - [SourceTrack] : Track read from the source catalog (title + ordered artists)
//   - [PlaylistRef] : Listed source playlist before its tracks are fetched
//   - [SourcePlaylist] : Playlist name with its ordered tracks, or the liked-songs pseudo-playlist
//   - [CandidateTrack] : Possible destination match returned by a search
//   - [SearchPage] : One page of a search result set with an opaque continuation
//
// 2. Transfer results
//   - [MatchResult] : Per-track outcome (Matched, Unmatched, Skipped)
//   - [UnmatchedTrack] : Entry of the unmatched-songs report
//   - [TransferOutcome] : Result of transferring one playlist
//   - [TransferRecord] : Persisted history row with per-playlist counts only
//
// [TransferRecord] implements the [Model] interface; the [Repository] interface defines
// standard CRUD operations for database access.
package models
