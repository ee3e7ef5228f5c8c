package aireport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxAttempts bounds the retry loop per chat call. Attempt sleeps grow by one
// second each round (1s, 2s) before jitter.
const maxAttempts = 3

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []Message      `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// ChatResult is one completed chat call.
type ChatResult struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Attempts         int
}

// Provider is the chat surface the pipeline generates against.
type Provider interface {
	Configured() bool
	Chat(ctx context.Context, messages []Message, temperature float64, maxTokens int) (*ChatResult, error)
}

// Client calls an OpenAI-compatible chat completions endpoint, retrying
// transient failures with increasing backoff.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
	sleep      func(time.Duration)
}

func NewClient(apiURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		apiKey:     apiKey,
		model:      model,
		sleep:      time.Sleep,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) Chat(ctx context.Context, messages []Message, temperature float64, maxTokens int) (*ChatResult, error) {
	payload, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    temperature,
		MaxTokens:      maxTokens,
	})
	if err != nil {
		return nil, &ProviderError{Attempts: 0, Err: err}
	}

	backoff := time.Second
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &ProviderError{Attempts: attempt - 1, Err: err}
		}

		resp, raw, err := c.doOnce(ctx, payload)
		if err == nil {
			result, parseErr := parseChatResponse(raw, attempt)
			if parseErr != nil {
				return nil, &ProviderError{Attempts: attempt, Err: parseErr}
			}
			return result, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, &ProviderError{Attempts: attempt, Err: err}
		}
		if attempt == maxAttempts {
			break
		}

		sleepFor := jitter(retryAfter(resp, backoff))
		slog.Warn("provider call failed, retrying",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		c.sleep(sleepFor)
		backoff += time.Second
	}

	return nil, &ProviderError{Attempts: maxAttempts, Err: lastErr}
}

func (c *Client) doOnce(ctx context.Context, payload []byte) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode != http.StatusOK {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func parseChatResponse(raw []byte, attempts int) (*ChatResult, error) {
	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("no choices in response")
	}
	return &ChatResult{
		Content:          stripFences(chat.Choices[0].Message.Content),
		Model:            chat.Model,
		PromptTokens:     chat.Usage.PromptTokens,
		CompletionTokens: chat.Usage.CompletionTokens,
		Attempts:         attempts,
	}, nil
}

// stripFences removes markdown code fences some models wrap JSON in despite
// the json_object response format.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	return strings.TrimSpace(content)
}
