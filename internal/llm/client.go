package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starford/coachnudge/internal/apperr"
)

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL             string
	apiKey              string
	model               string
	maxCompletionTokens int
	http                *http.Client
}

var _ Provider = (*Client)(nil)

type chatRequest struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	MaxCompletionTokens int       `json:"max_completion_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a chat-completions client. timeout bounds each call;
// zero means the 30s default.
func NewClient(baseURL, apiKey, model string, maxCompletionTokens int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:             baseURL,
		apiKey:              apiKey,
		model:               model,
		maxCompletionTokens: maxCompletionTokens,
		http:                &http.Client{Timeout: timeout},
	}
}

// Generate sends prompt as a single user message and returns the first
// choice's content.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:               c.model,
		Messages:            []Message{{Role: "user", Content: prompt}},
		MaxCompletionTokens: c.maxCompletionTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("llm: %w: %s", apperr.ErrAuth, apiErrorMessage(body))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: api error (status %d): %s", resp.StatusCode, apiErrorMessage(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("llm: api returned error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", apperr.ErrEmptyResponse
	}
	return chatResp.Choices[0].Message.Content, nil
}

// apiErrorMessage extracts {error:{message}} from an error body, falling
// back to the raw body.
func apiErrorMessage(body []byte) string {
	var wrapper struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error.Message != "" {
		return wrapper.Error.Message
	}
	return string(body)
}
