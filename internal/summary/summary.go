// Package summary is the optional OpenAI summarization client. When no API
// key is configured it degrades to a plain-text preview instead of failing;
// a transport error comes back as an error the caller renders as a notice.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const openaiEndpoint = "https://api.openai.com/v1/chat/completions"

const summarizePrompt = `You are an assistant that summarizes tech articles.
Summarize the following text in about %d words, listing the main ideas
clearly and concisely:

%s`

// Client summarizes article text through the OpenAI chat completions API.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	maxWords int
	client   *http.Client
}

// New builds a Client. An empty apiKey is allowed: Summarize then returns
// a preview instead of calling the API.
func New(apiKey, model string, maxWords int) *Client {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if maxWords <= 0 {
		maxWords = 120
	}
	return &Client{
		endpoint: openaiEndpoint,
		apiKey:   apiKey,
		model:    model,
		maxWords: maxWords,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
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
}

// Summarize returns a summary of text. Without an API key it returns a
// truncated preview; with one it calls the API and returns its answer.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "Nothing to summarize.", nil
	}

	if !c.Enabled() {
		return Preview(text, 150), nil
	}

	prompt := fmt.Sprintf(summarizePrompt, c.maxWords, text)
	body, _ := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   300,
		Temperature: 0.5,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai API %d: %s", resp.StatusCode, string(b))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// Preview truncates text to at most n runes for the degraded, no-API path.
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
