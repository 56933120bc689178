// Package llm talks to the hosted chat-completion service used for call
// script generation and the generic chat passthrough.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no API key is set
var ErrNotConfigured = errors.New("llm: server not configured")

const systemPrompt = "You write short, polite phone call scripts. " +
	"Given a caller name, a restaurant and an order, produce the exact words " +
	"an automated voice should speak when placing the order over the phone. " +
	"Reply with the script only, no preamble."

// Client is an HTTP client for an OpenAI-compatible chat endpoint
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateScript asks the model for a call script. Callers treat any error
// here as a degraded path, not a failure of the whole action.
func (c *Client) GenerateScript(ctx context.Context, callerName, restaurant, order string) (string, error) {
	prompt := fmt.Sprintf(
		"Caller name: %s\nRestaurant: %s\nOrder: %s",
		callerName, restaurant, order,
	)
	return c.complete(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
}

// Chat forwards a free-form message and returns the model's reply
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	return c.complete(ctx, []chatMessage{
		{Role: "user", Content: message},
	})
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: reading response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("llm: decoding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("llm: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("llm: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("llm: empty completion")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
