package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lukemoll/replay/internal/recommend"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", "gpt-4")
	client.baseURL = server.URL
	return client
}

func completionResponse(content string) string {
	return `{"choices":[{"message":{"content":` + quote(content) + `}}]}`
}

func quote(s string) string {
	replacer := strings.NewReplacer(`"`, `\"`, "\n", `\n`)
	return `"` + replacer.Replace(s) + `"`
}

func TestSuggestSongsReturnsRawCompletion(t *testing.T) {
	var gotAuth, gotBody string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(completionResponse(`[{"title":"Holocene","artist":"Bon Iver"}]`)))
	})

	raw, err := client.SuggestSongs(context.Background(), recommend.SeedQuery{Title: "Re:Stacks", Artist: "Bon Iver"}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if raw != `[{"title":"Holocene","artist":"Bon Iver"}]` {
		t.Errorf("unexpected raw completion: %s", raw)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if !strings.Contains(gotBody, "Suggest 3 songs") {
		t.Errorf("expected the candidate count in the prompt, got: %s", gotBody)
	}
	if !strings.Contains(gotBody, "Re:Stacks") || !strings.Contains(gotBody, "Bon Iver") {
		t.Errorf("expected the seed in the prompt, got: %s", gotBody)
	}
}

func TestSuggestSongsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`))
	})

	_, err := client.SuggestSongs(context.Background(), recommend.SeedQuery{Title: "A", Artist: "B"}, 10)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Rate limit reached") {
		t.Errorf("expected the API message to surface, got: %v", err)
	}
}

func TestCleanSeedParsesModelOutput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse(`{"title":"Clair de lune, L. 32","artist":"Claude Debussy"}`)))
	})

	cleaned, err := client.CleanSeed(context.Background(), recommend.SeedQuery{Title: "clair de lune", Artist: "debussy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleaned.Title != "Clair de lune, L. 32" || cleaned.Artist != "Claude Debussy" {
		t.Errorf("unexpected cleaned seed: %+v", cleaned)
	}
}

func TestCleanSeedFallsBackOnUnusableOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "Sure! The canonical title is Clair de lune."},
		{name: "missing fields", content: `{"title":"","artist":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(completionResponse(tt.content)))
			})

			seed := recommend.SeedQuery{Title: "clair de lune", Artist: "debussy"}
			cleaned, err := client.CleanSeed(context.Background(), seed)
			if err != nil {
				t.Fatalf("unusable output must not error: %v", err)
			}
			if cleaned != seed {
				t.Errorf("expected the input back, got %+v", cleaned)
			}
		})
	}
}

func TestCleanSeedTransportFailure(t *testing.T) {
	client := NewClient("test-key", "gpt-4")
	client.baseURL = "http://127.0.0.1:1"

	seed := recommend.SeedQuery{Title: "A", Artist: "B"}
	cleaned, err := client.CleanSeed(context.Background(), seed)
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if cleaned != seed {
		t.Errorf("expected the input back on failure, got %+v", cleaned)
	}
}
