package models

import (
	"errors"
	"strings"
)

// LikedSongsName is the fixed name of the liked-songs pseudo-playlist.
const LikedSongsName = "Liked Songs from Yandex"

// ErrMalformedTrack is returned by [SourceTrack.Validate] for tracks that cannot be searched.
var ErrMalformedTrack = errors.New("malformed track metadata")

// SourceTrack represents a track read from the source catalog.
type SourceTrack struct {
	Title   string
	Artists []string // Ordered, primary artist first
	Album   string
}

// PrimaryArtist returns the first artist, or an empty string when there is none.
func (t SourceTrack) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Validate reports [ErrMalformedTrack] when the title is blank or the artist list is empty.
func (t SourceTrack) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.Join(ErrMalformedTrack, errors.New("missing title"))
	}
	if strings.TrimSpace(t.PrimaryArtist()) == "" {
		return errors.Join(ErrMalformedTrack, errors.New("missing artist"))
	}
	return nil
}

// PlaylistRef identifies a source playlist before its tracks are fetched.
type PlaylistRef struct {
	ID         string // Playlist kind on Yandex Music
	OwnerID    string
	Name       string
	TrackCount int
	Liked      bool // Set for the liked-songs pseudo-playlist
}

// LikedSongs returns the sentinel reference for the liked-songs pseudo-playlist.
func LikedSongs() PlaylistRef {
	return PlaylistRef{Name: LikedSongsName, Liked: true}
}

// SourcePlaylist is a playlist name with its ordered tracks.
type SourcePlaylist struct {
	Name   string
	Tracks []SourceTrack
}

// CandidateTrack is a possible destination-side match produced by a search.
type CandidateTrack struct {
	URI     string
	Name    string
	Artists []string
	Album   string
}

// ArtistNames joins the candidate's artists for display.
func (c CandidateTrack) ArtistNames() string {
	return strings.Join(c.Artists, ", ")
}

// SearchPage is one page of a search result set.
type SearchPage struct {
	Query string
	Limit int
	Items []CandidateTrack

	// Cursor is an opaque continuation owned by the catalog that produced the page.
	// It is nil when no further page exists.
	Cursor any
}

// Empty reports whether the page has no items.
func (p *SearchPage) Empty() bool {
	return p == nil || len(p.Items) == 0
}

// HasNext reports whether a further page can be fetched.
func (p *SearchPage) HasNext() bool {
	return p != nil && p.Cursor != nil
}
