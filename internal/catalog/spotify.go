package catalog

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/lukemoll/replay/internal/recommend"
)

const (
	spotifyAPIURL   = "https://api.spotify.com/v1"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// SpotifyExpander expands one matched seed track into a set of related
// songs using Spotify's own recommendation endpoint. It is the alternate
// resolution strategy: one exact track search, then one expansion call.
type SpotifyExpander struct {
	clientID     string
	clientSecret string
	maxResults   int
	apiURL       string
	tokenURL     string
	httpClient   *http.Client
}

func NewSpotifyExpander(clientID, clientSecret string, maxResults int) (*SpotifyExpander, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("Spotify client credentials not configured")
	}
	if maxResults == 0 {
		maxResults = 10
	}

	return &SpotifyExpander{
		clientID:     clientID,
		clientSecret: clientSecret,
		maxResults:   maxResults,
		apiURL:       spotifyAPIURL,
		tokenURL:     spotifyTokenURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Expand searches for an exact track match and, when one exists, returns
// Spotify's related tracks for it. An unmatched seed yields an empty slice,
// not an error.
func (e *SpotifyExpander) Expand(ctx context.Context, c recommend.Candidate) ([]recommend.Song, error) {
	token, err := e.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	seedID, err := e.searchTrack(ctx, token, c)
	if err != nil {
		return nil, err
	}
	if seedID == "" {
		log.Debug().Str("title", c.Title).Str("artist", c.Artist).Msg("No Spotify match for seed")
		return []recommend.Song{}, nil
	}

	return e.recommendations(ctx, token, seedID)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (e *SpotifyExpander) accessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(e.clientID + ":" + e.clientSecret))

	req, err := http.NewRequestWithContext(ctx, "POST", e.tokenURL,
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", &Error{Kind: KindUpstream, Op: "spotify token", Err: err}
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindUpstream, Op: "spotify token", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus("spotify token", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", &Error{Kind: KindUpstream, Op: "spotify token", Err: err}
	}
	if tok.AccessToken == "" {
		return "", &Error{Kind: KindUpstream, Op: "spotify token", Err: fmt.Errorf("no access token returned")}
	}

	return tok.AccessToken, nil
}

type searchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type spotifyTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	PreviewURL string `json:"preview_url"`
	Album      struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

func (e *SpotifyExpander) searchTrack(ctx context.Context, token string, c recommend.Candidate) (string, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("track:%s artist:%s", c.Title, c.Artist))
	params.Set("type", "track")
	params.Set("limit", "1")

	fullURL := fmt.Sprintf("%s/search?%s", e.apiURL, params.Encode())

	var result searchResponse
	if err := e.get(ctx, "spotify search", fullURL, token, &result); err != nil {
		return "", err
	}

	if len(result.Tracks.Items) == 0 {
		return "", nil
	}
	return result.Tracks.Items[0].ID, nil
}

type recommendationsResponse struct {
	Tracks []spotifyTrack `json:"tracks"`
}

func (e *SpotifyExpander) recommendations(ctx context.Context, token, seedID string) ([]recommend.Song, error) {
	params := url.Values{}
	params.Set("seed_tracks", seedID)
	params.Set("limit", fmt.Sprintf("%d", e.maxResults))

	fullURL := fmt.Sprintf("%s/recommendations?%s", e.apiURL, params.Encode())

	var result recommendationsResponse
	if err := e.get(ctx, "spotify recommendations", fullURL, token, &result); err != nil {
		return nil, err
	}

	songs := make([]recommend.Song, 0, len(result.Tracks))
	for _, track := range result.Tracks {
		songs = append(songs, toSong(track))
	}
	return songs, nil
}

func (e *SpotifyExpander) get(ctx context.Context, op, fullURL, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return &Error{Kind: KindUpstream, Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindUpstream, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(op, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUpstream, Op: op, Err: err}
	}
	return nil
}

func toSong(track spotifyTrack) recommend.Song {
	artists := make([]string, 0, len(track.Artists))
	for _, a := range track.Artists {
		artists = append(artists, a.Name)
	}

	var image string
	if len(track.Album.Images) > 0 {
		image = track.Album.Images[0].URL
	}

	return recommend.Song{
		ID:         track.ID,
		Title:      track.Name,
		Artist:     strings.Join(artists, ", "),
		MediaRef:   track.ExternalURLs.Spotify,
		PreviewURL: track.PreviewURL,
		ImageURL:   image,
	}
}

// classifyStatus maps an HTTP status onto the catalog error taxonomy.
// Spotify signals rate limiting with 429.
func classifyStatus(op string, status int) *Error {
	kind := KindUpstream
	if status == http.StatusTooManyRequests {
		kind = KindQuota
	}
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf("API returned status %d", status)}
}
