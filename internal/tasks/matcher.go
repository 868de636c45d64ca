package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/services"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/translit"
)

const (
	ExactLimit = 1 // Result limit of the exact and transliterated passes
	BroadLimit = 5 // Result limit of the title-only pass
)

// Pass identifies which search pass produced a [Match].
type Pass int

const (
	PassNone Pass = iota
	PassExact
	PassTranslit
	PassBroad
)

func (p Pass) String() string {
	switch p {
	case PassExact:
		return "exact"
	case PassTranslit:
		return "translit"
	case PassBroad:
		return "broad"
	default:
		return "none"
	}
}

// Match is the result of searching for one source track.
type Match struct {
	Pass       Pass
	Candidates []models.CandidateTrack
	Page       *models.SearchPage // Page the candidates came from; browsed by the resolver for PassBroad
}

// Definitive reports whether an artist-qualified pass produced a result.
func (m *Match) Definitive() bool {
	return m != nil && (m.Pass == PassExact || m.Pass == PassTranslit) && len(m.Candidates) > 0
}

// Best returns the top candidate of a definitive match.
func (m *Match) Best() (models.CandidateTrack, bool) {
	if !m.Definitive() {
		return models.CandidateTrack{}, false
	}
	return m.Candidates[0], true
}

// Matcher locates destination candidates for source tracks with a layered search.
type Matcher struct {
	dest     services.DestinationCatalog
	translit translit.Func
}

// NewMatcher creates a Matcher over dest. A nil fn falls back to [translit.Russian].
func NewMatcher(dest services.DestinationCatalog, fn translit.Func) *Matcher {
	if fn == nil {
		fn = translit.Russian
	}
	return &Matcher{dest: dest, translit: fn}
}

// ExactQuery builds the artist-qualified search query for a title.
func ExactQuery(title, artist string) string {
	return fmt.Sprintf("%s artist:%s", title, artist)
}

// Match runs the exact, transliterated and broad passes in order, stopping at the first non-empty one.
//
// When every pass is empty the returned match has PassBroad and an empty page.
func (m *Matcher) Match(ctx context.Context, track models.SourceTrack) (*Match, error) {
	match, err := m.MatchPrecise(ctx, track)
	if err != nil || match.Definitive() {
		return match, err
	}

	page, err := m.search(ctx, track.Title, BroadLimit)
	if err != nil {
		return nil, err
	}
	return &Match{Pass: PassBroad, Candidates: page.Items, Page: page}, nil
}

// MatchPrecise runs only the artist-qualified passes.
func (m *Matcher) MatchPrecise(ctx context.Context, track models.SourceTrack) (*Match, error) {
	artist := track.PrimaryArtist()

	page, err := m.search(ctx, ExactQuery(track.Title, artist), ExactLimit)
	if err != nil {
		return nil, err
	}
	if !page.Empty() {
		return &Match{Pass: PassExact, Candidates: page.Items, Page: page}, nil
	}

	latin := m.translit(artist)
	if latin == artist {
		return &Match{Pass: PassNone, Page: page}, nil
	}

	page, err = m.search(ctx, ExactQuery(track.Title, latin), ExactLimit)
	if err != nil {
		return nil, err
	}
	if !page.Empty() {
		return &Match{Pass: PassTranslit, Candidates: page.Items, Page: page}, nil
	}
	return &Match{Pass: PassNone, Page: page}, nil
}

func (m *Matcher) search(ctx context.Context, query string, limit int) (*models.SearchPage, error) {
	page, err := m.dest.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", shared.ErrSearchFailed, query, err)
	}
	if page == nil {
		page = &models.SearchPage{Query: query, Limit: limit}
	}
	return page, nil
}
