package judge

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"sway/internal/discover"
	"sway/internal/display"
	"sway/internal/logging"
	"sway/internal/persona"
)

// ClientConfig configures the chat-completions endpoint and HTTP behavior.
type ClientConfig struct {
	BaseURL     string       // default https://api.openai.com/v1
	APIKey      string
	Model       string       // default gpt-4o
	Temperature float64      // default 0.7
	HTTPClient  *http.Client // injectable for tests; default http.DefaultClient
	Logger      *slog.Logger // nil = component logger off slog default
}

// Client calls an OpenAI-compatible chat-completions endpoint with the
// persona conditioning, task instructions, and both images inline.
type Client struct {
	cfg ClientConfig
	log *slog.Logger
}

// NewClient creates a Client with defaults filled in.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	l := cfg.Logger
	if l == nil {
		l = logging.New("judge")
	}
	return &Client{cfg: cfg, log: l}
}

// --- chat-completions wire types ---

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []contentPart
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Invoke performs exactly one judgment attempt for the pair under the given
// persona. Failures come back as *Error with a Class; retrying is the
// caller's job.
func (c *Client) Invoke(ctx context.Context, pair discover.Pair, p persona.Persona) (*Verdict, error) {
	imgA, err := encodeImage(pair.SideA)
	if err != nil {
		return nil, failf(ClassFatal, "read image A: %w", err)
	}
	imgB, err := encodeImage(pair.SideB)
	if err != nil {
		return nil, failf(ClassFatal, "read image B: %w", err)
	}

	strategy := display.Strategy(pair.ID)
	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(p)},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: taskPrompt(strategy)},
				{Type: "image_url", ImageURL: &imageURL{URL: imgA}},
				{Type: "image_url", ImageURL: &imageURL{URL: imgB}},
			}},
		},
		Temperature:    c.cfg.Temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, failf(ClassFatal, "marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, failf(ClassFatal, "build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.log.Debug("invoking judgment service",
		"pair", pair.ID, "persona", p.ID, "model", c.cfg.Model)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, failf(ClassTransient, "call judgment service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failf(ClassTransient, "read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, failf(ClassRateLimited, "service rate limit: %s", snippet(body))
	case resp.StatusCode >= 500:
		return nil, failf(ClassTransient, "service error %d: %s", resp.StatusCode, snippet(body))
	case resp.StatusCode != http.StatusOK:
		return nil, failf(ClassFatal, "service rejected request with %d: %s", resp.StatusCode, snippet(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Upstream envelope damage, not model output damage.
		return nil, failf(ClassTransient, "parse service envelope: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, failf(ClassMalformed, "response has no choices")
	}
	return ParseVerdict(parsed.Choices[0].Message.Content)
}

// encodeImage reads an image file and returns it as an inline data URL.
func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

// snippet truncates an error body for log-safe inclusion in messages.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
