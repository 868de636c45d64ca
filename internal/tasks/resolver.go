package tasks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/ymx/internal/formatter"
	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
)

const (
	choicePrompt  = "Choose a song to add (enter the number, 0 to skip, N for next results, S to skip all): "
	noMoreResults = "No more results available."
	invalidChoice = "Invalid choice"
)

// Outcome is the terminal state of a disambiguation.
type Outcome int

const (
	OutcomeSelected Outcome = iota
	OutcomeSkipped
	OutcomeSkippedAll
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSelected:
		return "selected"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeSkippedAll:
		return "skipped_all"
	default:
		return ""
	}
}

// Resolution is what a [Resolver] decided for one track. Candidate is set for OutcomeSelected.
type Resolution struct {
	Outcome   Outcome
	Candidate models.CandidateTrack
}

// Resolver picks a candidate for a track whose precise passes came back empty.
type Resolver interface {
	Resolve(ctx context.Context, track models.SourceTrack, page *models.SearchPage) (Resolution, error)
}

// Pager fetches the continuation of a search page.
type Pager interface {
	FetchNextPage(ctx context.Context, page *models.SearchPage) (*models.SearchPage, error)
}

// ChoiceKind classifies one line of resolver input.
type ChoiceKind int

const (
	ChoiceInvalid ChoiceKind = iota
	ChoiceIndex
	ChoiceSkip
	ChoiceNext
	ChoiceSkipAll
)

// ParseChoice classifies input, trimming whitespace and ignoring case.
//
// The returned index is 1-based and only meaningful for ChoiceIndex.
func ParseChoice(input string) (ChoiceKind, int) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "":
		return ChoiceInvalid, 0
	case "0":
		return ChoiceSkip, 0
	case "n", "next":
		return ChoiceNext, 0
	case "s", "skip-all":
		return ChoiceSkipAll, 0
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return ChoiceInvalid, 0
	}
	return ChoiceIndex, n
}

// PromptResolver asks the user to choose among candidates on a line-oriented terminal.
type PromptResolver struct {
	in    *bufio.Reader
	out   io.Writer
	pager Pager
}

// NewPromptResolver creates a PromptResolver. The reader is shared with other prompts of the session.
func NewPromptResolver(in *bufio.Reader, out io.Writer, pager Pager) *PromptResolver {
	return &PromptResolver{in: in, out: out, pager: pager}
}

// Resolve renders the page and loops until the user selects, skips or skips all.
//
// End of input resolves to OutcomeSkippedAll.
func (r *PromptResolver) Resolve(ctx context.Context, track models.SourceTrack, page *models.SearchPage) (Resolution, error) {
	title, artist := track.Title, track.PrimaryArtist()
	if page.Empty() {
		fmt.Fprintf(r.out, "No songs found on Spotify for \"%s\" by \"%s\"\n", title, artist)
		return Resolution{Outcome: OutcomeSkipped}, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return Resolution{}, err
		}

		fmt.Fprintf(r.out, "Songs found on Spotify for \"%s\" by \"%s\":\n", title, artist)
		if err := formatter.CandidateTable(r.out, page.Items); err != nil {
			return Resolution{}, err
		}
		fmt.Fprint(r.out, choicePrompt)

		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Resolution{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			fmt.Fprintln(r.out)
			return Resolution{Outcome: OutcomeSkippedAll}, nil
		}

		kind, n := ParseChoice(line)
		switch kind {
		case ChoiceIndex:
			if n > len(page.Items) {
				fmt.Fprintln(r.out, invalidChoice)
				continue
			}
			return Resolution{Outcome: OutcomeSelected, Candidate: page.Items[n-1]}, nil
		case ChoiceSkip:
			return Resolution{Outcome: OutcomeSkipped}, nil
		case ChoiceSkipAll:
			return Resolution{Outcome: OutcomeSkippedAll}, nil
		case ChoiceNext:
			next, err := r.next(ctx, page)
			if err != nil {
				return Resolution{}, err
			}
			if next == nil {
				fmt.Fprintln(r.out, noMoreResults)
				continue
			}
			page = next
		default:
			fmt.Fprintln(r.out, invalidChoice)
		}
	}
}

// next returns (nil, nil) when the page has no non-empty continuation.
func (r *PromptResolver) next(ctx context.Context, page *models.SearchPage) (*models.SearchPage, error) {
	if r.pager == nil || !page.HasNext() {
		return nil, nil
	}

	next, err := r.pager.FetchNextPage(ctx, page)
	if errors.Is(err, shared.ErrNoMorePages) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: next page: %v", shared.ErrSearchFailed, err)
	}
	if next.Empty() {
		return nil, nil
	}
	return next, nil
}

// SkipResolver skips every inconclusive track.
type SkipResolver struct{}

func (SkipResolver) Resolve(ctx context.Context, track models.SourceTrack, page *models.SearchPage) (Resolution, error) {
	return Resolution{Outcome: OutcomeSkipped}, nil
}

// FirstCandidateResolver selects the top broad candidate, or skips when there is none.
type FirstCandidateResolver struct{}

func (FirstCandidateResolver) Resolve(ctx context.Context, track models.SourceTrack, page *models.SearchPage) (Resolution, error) {
	if page.Empty() {
		return Resolution{Outcome: OutcomeSkipped}, nil
	}
	return Resolution{Outcome: OutcomeSelected, Candidate: page.Items[0]}, nil
}

// NewHeadlessResolver maps a policy name ("skip" or "first") to a resolver.
func NewHeadlessResolver(policy string) (Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "skip":
		return SkipResolver{}, nil
	case "first":
		return FirstCandidateResolver{}, nil
	default:
		return nil, fmt.Errorf("%w: headless policy %q (want skip or first)", shared.ErrInvalidArgument, policy)
	}
}
