package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "folder-metadata/internal/common/errors"
	httpclient "folder-metadata/internal/common/http"
)

// Invoker sends one system and one user message to a chat model and returns
// the text of the first choice.
type Invoker interface {
	Invoke(ctx context.Context, model, system, user string) (string, error)
}

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
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
}

// NewClient returns a chat client. timeout of 0 leaves the call bounded only
// by the caller's context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpclient.NewClient(timeout),
	}
}

func (c *Client) Invoke(ctx context.Context, model, system, user string) (string, error) {
	req := chatRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + c.apiKey}
	}

	var resp chatResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrModelInvocation, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", apperrors.ErrModelInvocation)
	}

	content := resp.Choices[0].Message.Content
	if content == nil {
		return "", nil
	}
	return *content, nil
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, model, system, user string) (string, error)

func (f InvokerFunc) Invoke(ctx context.Context, model, system, user string) (string, error) {
	return f(ctx, model, system, user)
}
