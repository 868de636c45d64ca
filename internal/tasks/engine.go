package tasks

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/services"
	"github.com/desertthunder/ymx/internal/shared"
)

// Recorder stores a history entry for each completed transfer.
type Recorder interface {
	Create(record *models.TransferRecord) error
}

// RunResult collects the outcomes of a batch run.
type RunResult struct {
	Outcomes   []*models.TransferOutcome
	Failed     []string // Names of playlists that could not be fetched or created
	ReportPath string   // Set when an unmatched report was written
}

// Engine transfers source playlists to the destination catalog.
//
// An Engine is used by one goroutine at a time.
type Engine struct {
	source   services.SourceCatalog
	dest     services.DestinationCatalog
	matcher  *Matcher
	resolver Resolver
	logger   *log.Logger

	User      string // Recorded on history entries
	ChunkSize int    // Tracks per add request; values outside (0, 100] mean 100
	Recorder  Recorder
	Reporter  Reporter
	Progress  func(ProgressUpdate)
}

// NewEngine creates an Engine. A nil resolver skips inconclusive tracks and a nil logger discards output.
func NewEngine(source services.SourceCatalog, dest services.DestinationCatalog, matcher *Matcher, resolver Resolver, logger *log.Logger) *Engine {
	if matcher == nil {
		matcher = NewMatcher(dest, nil)
	}
	if resolver == nil {
		resolver = SkipResolver{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		source:   source,
		dest:     dest,
		matcher:  matcher,
		resolver: resolver,
		logger:   logger,
	}
}

func (e *Engine) sendProgress(update ProgressUpdate) {
	if e.Progress != nil {
		e.Progress(update)
	}
}

// Playlists lists the source user's playlists in catalog order.
func (e *Engine) Playlists(ctx context.Context) ([]models.PlaylistRef, error) {
	e.sendProgress(fetchPlaylistsUpdate())

	refs, err := e.source.ListUserPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s playlists: %w", e.source.Name(), err)
	}
	return refs, nil
}

// ListPlaylists returns the names of the source user's playlists.
func (e *Engine) ListPlaylists(ctx context.Context) ([]string, error) {
	refs, err := e.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return names, nil
}

// SelectPlaylists picks refs by 1-based index, preserving the order of indices.
func SelectPlaylists(refs []models.PlaylistRef, indices []int) ([]models.PlaylistRef, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: no playlists selected", shared.ErrInvalidSelection)
	}

	selected := make([]models.PlaylistRef, 0, len(indices))
	for _, i := range indices {
		if i < 1 || i > len(refs) {
			return nil, fmt.Errorf("%w: %d is not between 1 and %d", shared.ErrInvalidSelection, i, len(refs))
		}
		selected = append(selected, refs[i-1])
	}
	return selected, nil
}

// ParseSelection parses comma-separated playlist numbers such as "1, 3,2".
func ParseSelection(input string) ([]int, error) {
	var indices []int
	for part := range strings.SplitSeq(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", shared.ErrInvalidSelection, part)
		}
		indices = append(indices, n)
	}

	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: no playlists selected", shared.ErrInvalidSelection)
	}
	return indices, nil
}

// LikedPlaylist returns the reference to the liked-songs pseudo-playlist.
func (e *Engine) LikedPlaylist() models.PlaylistRef {
	return models.LikedSongs()
}

// Fetch loads the tracks of ref from the source catalog.
func (e *Engine) Fetch(ctx context.Context, ref models.PlaylistRef) (*models.SourcePlaylist, error) {
	var (
		tracks []models.SourceTrack
		err    error
	)

	if ref.Liked {
		tracks, err = e.source.ListLikedTracks(ctx)
	} else {
		tracks, err = e.source.ListPlaylistTracks(ctx, ref.ID, ref.OwnerID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrFetchTracks, ref.Name, err)
	}

	name := ref.Name
	if ref.Liked {
		name = models.LikedSongsName
	}
	return &models.SourcePlaylist{Name: name, Tracks: tracks}, nil
}

// Transfer creates a private destination playlist and fills it with the matched tracks of playlist.
//
// Failing to create the playlist is returned as an error wrapping [shared.ErrCreatePlaylist]. Per-track
// and per-chunk failures are recorded on the outcome instead.
func (e *Engine) Transfer(ctx context.Context, playlist *models.SourcePlaylist) (*models.TransferOutcome, error) {
	logger := shared.WithLogger(e.logger, "playlist", playlist.Name)

	owner, err := e.dest.CurrentUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCreatePlaylist, playlist.Name, err)
	}

	id, err := e.dest.CreatePlaylist(ctx, owner, playlist.Name, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCreatePlaylist, playlist.Name, err)
	}
	logger.Info("playlist created", "destination", e.dest.Name(), "id", id)
	e.sendProgress(createPlaylistUpdate(playlist.Name, id))

	outcome := &models.TransferOutcome{PlaylistName: playlist.Name, DestinationID: id}
	// Skip-all only applies within this playlist.
	skipAll := false
	total := len(playlist.Tracks)

	for i, track := range playlist.Tracks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := e.matchTrack(ctx, logger, track, &skipAll)
		outcome.Record(track, result)
		e.sendProgress(matchTrackUpdate(i+1, total, track, result))
	}

	e.addTracks(ctx, logger, outcome)
	return outcome, nil
}

func (e *Engine) matchTrack(ctx context.Context, logger *log.Logger, track models.SourceTrack, skipAll *bool) models.MatchResult {
	if err := track.Validate(); err != nil {
		logger.Warn("malformed track", "title", track.Title, "artist", track.PrimaryArtist(), "error", err)
		return models.Unmatched(models.ReasonError)
	}

	if *skipAll {
		match, err := e.matcher.MatchPrecise(ctx, track)
		if err != nil {
			logger.Error("search failed", "title", track.Title, "artist", track.PrimaryArtist(), "error", err)
			return models.Unmatched(models.ReasonError)
		}
		if best, ok := match.Best(); ok {
			return models.Matched(best.URI)
		}
		return models.Skipped()
	}

	match, err := e.matcher.Match(ctx, track)
	if err != nil {
		logger.Error("search failed", "title", track.Title, "artist", track.PrimaryArtist(), "error", err)
		return models.Unmatched(models.ReasonError)
	}
	if best, ok := match.Best(); ok {
		return models.Matched(best.URI)
	}
	if match.Page.Empty() {
		logger.Debug("no candidates", "title", track.Title, "artist", track.PrimaryArtist())
		return models.Unmatched(models.ReasonNotFound)
	}

	res, err := e.resolver.Resolve(ctx, track, match.Page)
	if err != nil {
		logger.Error("disambiguation failed", "title", track.Title, "artist", track.PrimaryArtist(), "error", err)
		return models.Unmatched(models.ReasonError)
	}

	switch res.Outcome {
	case OutcomeSelected:
		return models.Matched(res.Candidate.URI)
	case OutcomeSkippedAll:
		*skipAll = true
		logger.Info("skipping remaining inconclusive tracks")
	}
	return models.Skipped()
}

func (e *Engine) addTracks(ctx context.Context, logger *log.Logger, outcome *models.TransferOutcome) {
	chunks := Chunk(outcome.TrackURIs, e.chunkSize())
	offset := 0
	for i, chunk := range chunks {
		e.sendProgress(addTracksUpdate(i+1, len(chunks), len(chunk)))

		if err := e.dest.AddTracksToPlaylist(ctx, outcome.DestinationID, chunk); err != nil {
			outcome.FailedChunks++
			logger.Error("failed to add tracks", "from", offset, "to", offset+len(chunk), "error", err)
		}
		offset += len(chunk)
	}
}

func (e *Engine) chunkSize() int {
	if e.ChunkSize <= 0 || e.ChunkSize > shared.MaxChunkSize {
		return shared.MaxChunkSize
	}
	return e.ChunkSize
}

// Chunk splits uris into consecutive slices of at most size elements.
func Chunk(uris []string, size int) [][]string {
	if size <= 0 {
		size = shared.MaxChunkSize
	}

	chunks := make([][]string, 0, (len(uris)+size-1)/size)
	for start := 0; start < len(uris); start += size {
		chunks = append(chunks, uris[start:min(start+size, len(uris))])
	}
	return chunks
}

// Run fetches and transfers each ref in order.
//
// Fetch and create failures are logged and listed in [RunResult.Failed]; the run continues with the next ref.
// The unmatched report is written once at the end when a [Reporter] is set and any track went unmatched.
func (e *Engine) Run(ctx context.Context, refs []models.PlaylistRef) (*RunResult, error) {
	result := &RunResult{}
	total := len(refs)

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		logger := shared.WithLogger(e.logger, "user", e.User, "playlist", ref.Name)
		e.sendProgress(fetchTracksUpdate(i+1, total, ref.Name))

		playlist, err := e.Fetch(ctx, ref)
		if err != nil {
			logger.Error("failed to fetch playlist", "error", err)
			result.Failed = append(result.Failed, ref.Name)
			e.sendProgress(transferFailedUpdate(i+1, total, ref.Name, err))
			continue
		}

		outcome, err := e.Transfer(ctx, playlist)
		if err != nil {
			logger.Error("failed to transfer playlist", "error", err)
			result.Failed = append(result.Failed, playlist.Name)
			e.sendProgress(transferFailedUpdate(i+1, total, playlist.Name, err))
			continue
		}

		result.Outcomes = append(result.Outcomes, outcome)
		e.record(logger, outcome)
		e.sendProgress(transferCompletedUpdate(i+1, total, outcome))
	}

	if e.Reporter != nil && HasUnmatched(result.Outcomes) {
		path, err := e.Reporter.Record(result.Outcomes)
		if err != nil {
			return result, fmt.Errorf("failed to write unmatched report: %w", err)
		}
		result.ReportPath = path
		e.logger.Info("unmatched report written", "path", path)
	}
	return result, nil
}

func (e *Engine) record(logger *log.Logger, outcome *models.TransferOutcome) {
	if e.Recorder == nil {
		return
	}
	if err := e.Recorder.Create(models.NewTransferRecord(e.User, outcome)); err != nil {
		logger.Warn("failed to record transfer history", "error", err)
	}
}
