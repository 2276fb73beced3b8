package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lukemoll/replay/internal/recommend"
)

const tokenJSON = `{"access_token":"test-token","token_type":"bearer","expires_in":3600}`

const searchHitJSON = `{"tracks":{"items":[{"id":"seed123","name":"Clair de lune","artists":[{"name":"Claude Debussy"}]}]}}`

const recommendationsJSON = `{"tracks":[
	{"id":"r1","name":"Gymnopédie No.1","artists":[{"name":"Erik Satie"}],
	 "preview_url":"https://p.scdn.co/r1","album":{"images":[{"url":"https://i.scdn.co/r1"}]},
	 "external_urls":{"spotify":"https://open.spotify.com/track/r1"}},
	{"id":"r2","name":"Rêverie","artists":[{"name":"Claude Debussy"},{"name":"Orchestre National"}],
	 "preview_url":"","album":{"images":[]},
	 "external_urls":{"spotify":"https://open.spotify.com/track/r2"}}
]}`

func newTestExpander(t *testing.T, handler http.HandlerFunc) *SpotifyExpander {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	expander, err := NewSpotifyExpander("id", "secret", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expander.apiURL = server.URL
	expander.tokenURL = server.URL + "/api/token"
	return expander
}

func TestSpotifyExpandMapsTracks(t *testing.T) {
	var searchQuery string

	expander := newTestExpander(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			w.Write([]byte(tokenJSON))
		case "/search":
			searchQuery = r.URL.Query().Get("q")
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("expected bearer token on search, got %q", got)
			}
			w.Write([]byte(searchHitJSON))
		case "/recommendations":
			if got := r.URL.Query().Get("seed_tracks"); got != "seed123" {
				t.Errorf("expected seed_tracks=seed123, got %q", got)
			}
			w.Write([]byte(recommendationsJSON))
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	songs, err := expander.Expand(context.Background(), recommend.Candidate{Title: "Clair de lune", Artist: "Debussy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if searchQuery != "track:Clair de lune artist:Debussy" {
		t.Errorf("unexpected search query: %q", searchQuery)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(songs))
	}

	first := songs[0]
	if first.ID != "r1" || first.Title != "Gymnopédie No.1" || first.Artist != "Erik Satie" {
		t.Errorf("first song mangled: %+v", first)
	}
	if first.MediaRef != "https://open.spotify.com/track/r1" {
		t.Errorf("expected the external url as mediaRef, got %q", first.MediaRef)
	}
	if first.PreviewURL != "https://p.scdn.co/r1" || first.ImageURL != "https://i.scdn.co/r1" {
		t.Errorf("expected preview and image urls, got %+v", first)
	}

	if songs[1].Artist != "Claude Debussy, Orchestre National" {
		t.Errorf("expected joined artist names, got %q", songs[1].Artist)
	}
	if songs[1].PreviewURL != "" || songs[1].ImageURL != "" {
		t.Errorf("expected empty optional fields, got %+v", songs[1])
	}
}

func TestSpotifyExpandNoMatchIsEmptyNotError(t *testing.T) {
	recommendationsCalled := false

	expander := newTestExpander(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			w.Write([]byte(tokenJSON))
		case "/search":
			w.Write([]byte(`{"tracks":{"items":[]}}`))
		case "/recommendations":
			recommendationsCalled = true
			w.Write([]byte(recommendationsJSON))
		}
	})

	songs, err := expander.Expand(context.Background(), recommend.Candidate{Title: "Nonexistent", Artist: "Nobody"})
	if err != nil {
		t.Fatalf("no match must not error: %v", err)
	}
	if len(songs) != 0 {
		t.Errorf("expected empty result, got %+v", songs)
	}
	if recommendationsCalled {
		t.Error("expansion must not run without a seed match")
	}
}

func TestSpotifyExpandClassifiesRateLimit(t *testing.T) {
	expander := newTestExpander(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			w.Write([]byte(tokenJSON))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	})

	_, err := expander.Expand(context.Background(), recommend.Candidate{Title: "A", Artist: "B"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsQuota(err) {
		t.Errorf("expected quota classification for 429, got %v", err)
	}
}

func TestSpotifyExpandClassifiesGenericFailure(t *testing.T) {
	expander := newTestExpander(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			w.Write([]byte(tokenJSON))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	_, err := expander.Expand(context.Background(), recommend.Candidate{Title: "A", Artist: "B"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if IsQuota(err) {
		t.Errorf("502 must not classify as quota: %v", err)
	}
}

func TestSpotifyExpandTokenFailure(t *testing.T) {
	expander := newTestExpander(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"invalid_client"}`))
	})

	_, err := expander.Expand(context.Background(), recommend.Candidate{Title: "A", Artist: "B"})
	if err == nil {
		t.Fatal("expected an error when no token is returned")
	}
	if IsQuota(err) {
		t.Errorf("token failure must not classify as quota: %v", err)
	}
}
