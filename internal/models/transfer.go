package models

import (
	"fmt"
	"time"
)

// MatchKind enumerates the variants of [MatchResult].
type MatchKind int

const (
	KindMatched MatchKind = iota
	KindUnmatched
	KindSkipped
)

func (k MatchKind) String() string {
	switch k {
	case KindMatched:
		return "matched"
	case KindUnmatched:
		return "unmatched"
	case KindSkipped:
		return "skipped"
	default:
		return ""
	}
}

// UnmatchedReason explains why a track ended up in the unmatched report.
type UnmatchedReason string

const (
	ReasonNotFound UnmatchedReason = "not_found"
	ReasonSkipped  UnmatchedReason = "skipped"
	ReasonError    UnmatchedReason = "error"
)

// MatchResult is the per-track outcome of matching.
type MatchResult struct {
	Kind   MatchKind
	URI    string          // Set for KindMatched
	Reason UnmatchedReason // Set for KindUnmatched and KindSkipped
}

// Matched returns a [MatchResult] resolving to the given destination URI.
func Matched(uri string) MatchResult {
	return MatchResult{Kind: KindMatched, URI: uri}
}

// Unmatched returns a [MatchResult] for a track that could not be resolved.
func Unmatched(reason UnmatchedReason) MatchResult {
	return MatchResult{Kind: KindUnmatched, Reason: reason}
}

// Skipped returns a [MatchResult] for a track the user (or a headless policy) chose to skip.
func Skipped() MatchResult {
	return MatchResult{Kind: KindSkipped, Reason: ReasonSkipped}
}

// UnmatchedTrack is one entry of the unmatched-songs report.
type UnmatchedTrack struct {
	Title  string
	Artist string
	Reason UnmatchedReason
}

// String renders the report line: "<title> by <artist>".
func (u UnmatchedTrack) String() string {
	return fmt.Sprintf("%s by %s", u.Title, u.Artist)
}

// TransferOutcome is the result of transferring a single playlist.
//
// TrackURIs preserves the relative order of matched source tracks and Unmatched preserves the
// order of unmatched or skipped ones, so len(TrackURIs)+len(Unmatched) equals the track count.
type TransferOutcome struct {
	PlaylistName  string
	DestinationID string
	TrackURIs     []string
	Unmatched     []UnmatchedTrack
	TrackErrors   int // Unmatched entries caused by a per-track processing error
	FailedChunks  int // add-items calls that failed
}

// Total returns the number of source tracks accounted for.
func (o *TransferOutcome) Total() int {
	return len(o.TrackURIs) + len(o.Unmatched)
}

// Record appends a track's [MatchResult] to the outcome.
func (o *TransferOutcome) Record(track SourceTrack, result MatchResult) {
	if result.Kind == KindMatched {
		o.TrackURIs = append(o.TrackURIs, result.URI)
		return
	}
	if result.Reason == ReasonError {
		o.TrackErrors++
	}
	o.Unmatched = append(o.Unmatched, UnmatchedTrack{
		Title:  track.Title,
		Artist: track.PrimaryArtist(),
		Reason: result.Reason,
	})
}

// TransferRecord is the persisted history entry for one playlist transfer.
//
// It stores counts only; track mappings are never persisted.
type TransferRecord struct {
	id            string
	User          string
	PlaylistName  string
	DestinationID string
	Total         int
	Matched       int
	Unmatched     int
	FailedChunks  int
	createdAt     time.Time
}

// NewTransferRecord builds a [TransferRecord] from a completed outcome.
func NewTransferRecord(user string, outcome *TransferOutcome) *TransferRecord {
	return &TransferRecord{
		User:          user,
		PlaylistName:  outcome.PlaylistName,
		DestinationID: outcome.DestinationID,
		Total:         outcome.Total(),
		Matched:       len(outcome.TrackURIs),
		Unmatched:     len(outcome.Unmatched),
		FailedChunks:  outcome.FailedChunks,
		createdAt:     time.Now().UTC(),
	}
}

// RestoreTransferRecord rebuilds a record loaded from storage.
func RestoreTransferRecord(id string, createdAt time.Time, r TransferRecord) *TransferRecord {
	r.id = id
	r.createdAt = createdAt
	return &r
}

func (r *TransferRecord) ID() string           { return r.id }
func (r *TransferRecord) SetID(id string)      { r.id = id }
func (r *TransferRecord) CreatedAt() time.Time { return r.createdAt }

// Validate checks required fields and count consistency.
func (r *TransferRecord) Validate() error {
	if r.User == "" {
		return fmt.Errorf("user is required")
	}
	if r.PlaylistName == "" {
		return fmt.Errorf("playlist name is required")
	}
	if r.Matched+r.Unmatched != r.Total {
		return fmt.Errorf("matched (%d) + unmatched (%d) must equal total (%d)", r.Matched, r.Unmatched, r.Total)
	}
	return nil
}
