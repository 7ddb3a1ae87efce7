package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const errBodyLimit = 512

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages []message `json:"messages"`
	Model    string    `json:"model"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to a chat-completions style text generation endpoint.
type Client struct {
	token  string
	model  string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewClient(token, model, apiURL string, httpClient HTTPClient, logger zerolog.Logger) *Client {
	return &Client{token: token, model: model, apiURL: apiURL, client: httpClient, logger: logger}
}

// Complete sends a single-turn user prompt and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	body, err := json.Marshal(completionRequest{
		Messages: []message{{Role: "user", Content: prompt}},
		Model:    c.model,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("model", c.model).
			Msg("completion request failed")
		return "", err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error().Err(cerr).Msg("failed to close completion response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		c.logger.Error().
			Str("model", c.model).
			Str("status", resp.Status).
			Msg("completion endpoint returned non-200 status")
		return "", fmt.Errorf("completion API error: status %s: %s", resp.Status, snippet)
	}

	var raw completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(raw.Choices) == 0 {
		return "", errors.New("completion response contains no choices")
	}

	c.logger.Debug().
		Str("model", c.model).
		Dur("duration", time.Since(start)).
		Msg("completion succeeded")

	return raw.Choices[0].Message.Content, nil
}
