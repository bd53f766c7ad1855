// Package ai proxies chat-completion requests to an OpenRouter-compatible
// endpoint. The server key never reaches browsers; all calls go through here.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Complete sends one chat-completion round trip and returns the first choice.
// Upstream failures of any shape map to ErrServiceUnavailable so handlers
// answer 503 without leaking provider internals.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", common.Errorf("%w: AI provider is not configured", common.ErrServiceUnavailable)
	}

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", common.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", common.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", common.Errorf("%w: provider returned status %d", common.ErrServiceUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", common.Errorf("%w: malformed provider response", common.ErrServiceUnavailable)
	}
	if parsed.Error != nil {
		return "", common.Errorf("%w: %s", common.ErrServiceUnavailable, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", common.Errorf("%w: provider returned no choices", common.ErrServiceUnavailable)
	}
	return parsed.Choices[0].Message.Content, nil
}

// ValidateSubmission asks the model whether the code plausibly solves the
// task. The verdict is advisory; it never gates submission.
func (c *Client) ValidateSubmission(ctx context.Context, taskTitle, taskDescription, code string) (string, error) {
	return c.Complete(ctx, []Message{
		{Role: "system", Content: "You are a strict but encouraging programming instructor. Judge whether the student's code solves the given task. Answer with a short verdict and one or two concrete hints."},
		{Role: "user", Content: fmt.Sprintf("Task: %s\n\n%s\n\nStudent code:\n%s", taskTitle, taskDescription, code)},
	})
}

// GenerateCode produces a reference solution for teachers drafting tasks.
func (c *Client) GenerateCode(ctx context.Context, language, prompt string) (string, error) {
	return c.Complete(ctx, []Message{
		{Role: "system", Content: fmt.Sprintf("You write clean, commented %s code suitable for school students. Return only the code.", language)},
		{Role: "user", Content: prompt},
	})
}

// Chat forwards a free-form conversation.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", common.Errorf("%w: at least one message is required", common.ErrValidation)
	}
	return c.Complete(ctx, messages)
}
