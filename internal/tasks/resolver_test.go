package tasks

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	th "github.com/desertthunder/ymx/internal/testing"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		kind  ChoiceKind
		index int
	}{
		{"1", ChoiceIndex, 1},
		{" 3 \n", ChoiceIndex, 3},
		{"0", ChoiceSkip, 0},
		{"N", ChoiceNext, 0},
		{"next", ChoiceNext, 0},
		{"s", ChoiceSkipAll, 0},
		{"SKIP-ALL", ChoiceSkipAll, 0},
		{"", ChoiceInvalid, 0},
		{"-1", ChoiceInvalid, 0},
		{"abc", ChoiceInvalid, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, index := ParseChoice(tt.input)
			if kind != tt.kind || index != tt.index {
				t.Errorf("ParseChoice(%q) = (%v, %d), want (%v, %d)", tt.input, kind, index, tt.kind, tt.index)
			}
		})
	}
}

func resolve(t *testing.T, input string, pager Pager, page *models.SearchPage) (Resolution, string) {
	t.Helper()
	var out bytes.Buffer
	r := NewPromptResolver(bufio.NewReader(strings.NewReader(input)), &out, pager)

	res, err := r.Resolve(context.Background(), th.Track("Кукушка", "Кино"), page)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return res, out.String()
}

func TestPromptResolver(t *testing.T) {
	candidates := []models.CandidateTrack{
		th.Candidate("c1", "Кукушка", "Полина Гагарина", "Калифорния"),
		th.Candidate("c2", "Кукушка", "Кино", "Чёрный альбом"),
	}
	page := &models.SearchPage{Query: "Кукушка", Limit: BroadLimit, Items: candidates}

	t.Run("Select By Index", func(t *testing.T) {
		res, out := resolve(t, "2\n", nil, page)
		if res.Outcome != OutcomeSelected || res.Candidate.URI != "spotify:track:c2" {
			t.Errorf("expected candidate 2, got %+v", res)
		}
		if !strings.Contains(out, `Songs found on Spotify for "Кукушка" by "Кино":`) {
			t.Errorf("missing heading:\n%s", out)
		}
		if !strings.Contains(out, "Чёрный альбом") || !strings.Contains(out, choicePrompt) {
			t.Errorf("missing table or prompt:\n%s", out)
		}
	})

	t.Run("Skip", func(t *testing.T) {
		if res, _ := resolve(t, "0\n", nil, page); res.Outcome != OutcomeSkipped {
			t.Errorf("expected skip, got %v", res.Outcome)
		}
	})

	t.Run("Skip All", func(t *testing.T) {
		if res, _ := resolve(t, "S\n", nil, page); res.Outcome != OutcomeSkippedAll {
			t.Errorf("expected skip all, got %v", res.Outcome)
		}
	})

	t.Run("Invalid Input Reprompts", func(t *testing.T) {
		res, out := resolve(t, "abc\n9\n1\n", nil, page)
		if res.Outcome != OutcomeSelected || res.Candidate.URI != "spotify:track:c1" {
			t.Errorf("expected candidate 1, got %+v", res)
		}
		if n := strings.Count(out, invalidChoice); n != 2 {
			t.Errorf("expected 2 invalid notices, got %d", n)
		}
		if n := strings.Count(out, "Songs found on Spotify"); n != 3 {
			t.Errorf("expected the table to render 3 times, got %d", n)
		}
	})

	t.Run("Next Page", func(t *testing.T) {
		second := []models.CandidateTrack{th.Candidate("p2", "Kukushka", "Kino", "")}
		dest := th.NewMockDestination().On("Кукушка", candidates, second)
		first, err := dest.Search(context.Background(), "Кукушка", BroadLimit)
		if err != nil {
			t.Fatal(err)
		}

		res, _ := resolve(t, "N\n1\n", dest, first)
		if res.Candidate.URI != "spotify:track:p2" {
			t.Errorf("expected first candidate of page 2, got %+v", res)
		}
		if dest.NextCalls != 1 {
			t.Errorf("expected 1 next-page call, got %d", dest.NextCalls)
		}
	})

	t.Run("Next Without Continuation", func(t *testing.T) {
		dest := th.NewMockDestination()
		res, out := resolve(t, "n\n0\n", dest, page)
		if res.Outcome != OutcomeSkipped {
			t.Errorf("expected skip after notice, got %v", res.Outcome)
		}
		if !strings.Contains(out, noMoreResults) {
			t.Errorf("expected %q notice:\n%s", noMoreResults, out)
		}
		if dest.NextCalls != 0 {
			t.Errorf("expected no next-page call, got %d", dest.NextCalls)
		}
	})

	t.Run("End Of Input", func(t *testing.T) {
		if res, _ := resolve(t, "", nil, page); res.Outcome != OutcomeSkippedAll {
			t.Errorf("expected skip all on EOF, got %v", res.Outcome)
		}
	})

	t.Run("Last Line Without Newline", func(t *testing.T) {
		if res, _ := resolve(t, "2", nil, page); res.Outcome != OutcomeSelected {
			t.Errorf("expected selection, got %v", res.Outcome)
		}
	})

	t.Run("Empty Page", func(t *testing.T) {
		res, out := resolve(t, "", nil, &models.SearchPage{})
		if res.Outcome != OutcomeSkipped {
			t.Errorf("expected skip, got %v", res.Outcome)
		}
		if !strings.Contains(out, `No songs found on Spotify for "Кукушка" by "Кино"`) {
			t.Errorf("missing empty notice:\n%s", out)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := NewPromptResolver(bufio.NewReader(strings.NewReader("1\n")), &bytes.Buffer{}, nil)
		if _, err := r.Resolve(ctx, th.Track("a", "b"), page); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestHeadlessResolvers(t *testing.T) {
	ctx := context.Background()
	page := &models.SearchPage{Items: []models.CandidateTrack{th.Candidate("x", "a", "b", "")}}

	t.Run("Skip", func(t *testing.T) {
		res, err := SkipResolver{}.Resolve(ctx, th.Track("a", "b"), page)
		if err != nil || res.Outcome != OutcomeSkipped {
			t.Errorf("expected skip, got %+v (%v)", res, err)
		}
	})

	t.Run("First Candidate", func(t *testing.T) {
		res, err := FirstCandidateResolver{}.Resolve(ctx, th.Track("a", "b"), page)
		if err != nil || res.Outcome != OutcomeSelected || res.Candidate.URI != "spotify:track:x" {
			t.Errorf("expected first candidate, got %+v (%v)", res, err)
		}

		res, _ = FirstCandidateResolver{}.Resolve(ctx, th.Track("a", "b"), &models.SearchPage{})
		if res.Outcome != OutcomeSkipped {
			t.Errorf("expected skip for empty page, got %v", res.Outcome)
		}
	})

	t.Run("Policy Names", func(t *testing.T) {
		if r, err := NewHeadlessResolver("skip"); err != nil || r != (SkipResolver{}) {
			t.Errorf("expected SkipResolver, got %T (%v)", r, err)
		}
		if r, err := NewHeadlessResolver(" First "); err != nil || r != (FirstCandidateResolver{}) {
			t.Errorf("expected FirstCandidateResolver, got %T (%v)", r, err)
		}
		if _, err := NewHeadlessResolver("random"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
