package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/lukemoll/replay/internal/recommend"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultModel   = "gpt-4"
)

// Client calls the OpenAI chat completions API. One request per operation,
// no retries; failures surface to the caller as-is.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// SuggestSongs asks the model for n songs similar to the seed. The prompt
// requests a strict JSON array of {title, artist}; the raw completion text
// is returned for the parser to deal with.
func (c *Client) SuggestSongs(ctx context.Context, seed recommend.SeedQuery, n int) (string, error) {
	prompt := fmt.Sprintf(
		`Suggest %d songs that are similar to %q by %q. The context is that this is one of those songs the user keeps replaying because it just clicks for them, and they want new songs that fit that bill. Respond as a JSON array of { "title": string, "artist": string }.`,
		n, seed.Title, seed.Artist)

	return c.complete(ctx, prompt)
}

// CleanSeed asks the model to normalize the seed to catalog naming
// conventions. Unusable model output falls back to the input unchanged;
// only transport or API errors are reported.
func (c *Client) CleanSeed(ctx context.Context, seed recommend.SeedQuery) (recommend.SeedQuery, error) {
	prompt := fmt.Sprintf(
		`The user entered the song title %q and artist %q. Clean this up to match the catalog's naming conventions. Respond ONLY as JSON: { "title": "...", "artist": "..." }`,
		seed.Title, seed.Artist)

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return seed, err
	}

	var cleaned recommend.SeedQuery
	if err := json.Unmarshal([]byte(raw), &cleaned); err != nil {
		return seed, nil
	}
	if cleaned.Title == "" || cleaned.Artist == "" {
		return seed, nil
	}
	return cleaned, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return chatResp.Choices[0].Message.Content, nil
}
