package tasks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/ymx/internal/services"
	"github.com/zmb3/spotify/v2"
)

// newPagedSearchServer serves a two-page track search the way the Web API does,
// with a null next link on the last page.
func newPagedSearchServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		calls++
		item := func(id, name string) string {
			return fmt.Sprintf(`{"id":%q,"name":%q,"uri":"spotify:track:%s","artists":[{"name":"Кино"}],"album":{"name":"Группа крови"}}`, id, name, id)
		}
		if r.URL.Query().Get("offset") == "1" {
			fmt.Fprintf(w, `{"tracks":{"items":[%s],"limit":1,"offset":1,"total":2,"next":null}}`, item("k2", "Кукушка (live)"))
			return
		}
		next := srv.URL + "/search?q=x&type=track&limit=1&offset=1"
		fmt.Fprintf(w, `{"tracks":{"items":[%s],"limit":1,"offset":0,"total":2,"next":%q}}`, item("k1", "Кукушка (demo)"), next)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestPromptResolverWithSpotify(t *testing.T) {
	srv, calls := newPagedSearchServer(t)
	svc := services.NewSpotifyService(spotify.New(srv.Client(), spotify.WithBaseURL(srv.URL+"/")))

	page, err := svc.Search(context.Background(), "Кукушка artist:Кино", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	res, out := resolve(t, "N\nN\n0\n", svc, page)
	if res.Outcome != OutcomeSkipped {
		t.Errorf("expected skip, got %v", res.Outcome)
	}
	if !strings.Contains(out, noMoreResults) {
		t.Errorf("expected %q notice on the last page:\n%s", noMoreResults, out)
	}
	if !strings.Contains(out, "Кукушка (live)") {
		t.Errorf("expected second page to be rendered:\n%s", out)
	}
	if *calls != 2 {
		t.Errorf("expected 2 search requests, got %d", *calls)
	}
}
