// Command client is a terminal client for a running replay server: it asks
// for a seed song, plays through the recommendations one at a time, and
// reports anonymized engagement events the same way the web client does.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/lukemoll/replay/internal/logging"
	"github.com/lukemoll/replay/internal/models"
	"github.com/lukemoll/replay/internal/recommend"
	"github.com/lukemoll/replay/internal/tracker"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", "http://localhost:8080", "replay server base URL")
	title := flag.String("title", "", "seed song title")
	artist := flag.String("artist", "", "seed song artist")
	stateDir := flag.String("state", defaultStateDir(), "directory for identity/session state")
	token := flag.String("token", os.Getenv("REPLAY_SERVER__METRICS_TOKEN"), "metrics shared secret")
	flag.Parse()

	logging.Init(logging.Config{Level: "warn", Format: "console"})

	if *title == "" || *artist == "" {
		fmt.Fprintln(os.Stderr, "usage: client -title <song> -artist <artist> [-server URL]")
		os.Exit(1)
	}

	store, err := tracker.NewFileStore(*stateDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open state directory:", err)
		os.Exit(1)
	}

	emitter := tracker.NewEmitter(*server+"/log", *token, tracker.NewTracker(store))
	defer emitter.Wait()

	started := time.Now()
	emitter.Emit(models.EventVisit, "", "")
	emitter.Emit(models.EventSearch, "", fmt.Sprintf("%s - %s", *title, *artist))

	songs, err := fetchRecommendations(*server, *title, *artist)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Recommendation request failed:", err)
		os.Exit(1)
	}

	if len(songs) == 0 {
		fmt.Println("No matching songs found. Try a different input.")
		emitter.Emit(models.EventNoResults, "", "")
		return
	}

	fmt.Printf("Found %d songs. Rate each one: h = hit, m = miss, q = quit.\n\n", len(songs))

	reader := bufio.NewReader(os.Stdin)
	rated := 0
	for _, song := range songs {
		fmt.Printf("▶ %s - %s\n  %s\n", song.Title, song.Artist, song.MediaRef)
		if song.PreviewURL != "" {
			fmt.Printf("  preview: %s\n", song.PreviewURL)
		}

		fmt.Print("  [h/m/q] > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "h":
			emitter.Emit(models.EventVote, song.ID, "hit")
		case "m":
			emitter.Emit(models.EventVote, song.ID, "miss")
		case "q":
			emitter.Emit(models.EventFeedback, "", fmt.Sprintf("quit after %d of %d", rated, len(songs)))
			emitter.Emit(models.EventTimeOnSite, "", time.Since(started).Round(time.Second).String())
			return
		default:
			continue
		}
		rated++
	}

	if rated == len(songs) {
		emitter.Emit(models.EventCompletedRecommendations, "", fmt.Sprintf("%d", rated))
	}
	emitter.Emit(models.EventTimeOnSite, "", time.Since(started).Round(time.Second).String())
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".replay"
	}
	return filepath.Join(home, ".replay")
}

func fetchRecommendations(server, title, artist string) ([]recommend.Song, error) {
	body, err := json.Marshal(recommend.SeedQuery{Title: title, Artist: artist})
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Post(server+"/recommendations", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, errBody.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var result struct {
		Results []recommend.Song `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Results, nil
}
