// Package llm is the single boundary to the optional generative model. Every
// pipeline stage goes through Client so that model failures stay degradable:
// one attempt per call, a hard timeout, and an error the caller logs and
// swallows while continuing on its deterministic fallback.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var ErrUnavailable = errors.New("chat model unavailable")

const defaultTimeout = 12 * time.Second

type Client struct {
	model   model.BaseChatModel
	timeout time.Duration
}

// NewClient wraps a chat model; m may be nil, in which case every Generate
// call reports ErrUnavailable and callers fall back deterministically.
func NewClient(m model.BaseChatModel, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{model: m, timeout: timeout}
}

func (c *Client) Available() bool {
	return c != nil && c.model != nil
}

// Request describes one model call. History is optional bounded context.
type Request struct {
	System      string
	History     []*schema.Message
	User        string
	Temperature float32
	MaxTokens   int
}

// Generate makes a single attempt with a timeout and returns trimmed text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]*schema.Message, 0, len(req.History)+2)
	messages = append(messages, schema.SystemMessage(req.System))
	messages = append(messages, req.History...)
	messages = append(messages, schema.UserMessage(req.User))

	var opts []model.Option
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	out, err := c.model.Generate(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", errors.New("model returned empty message")
	}
	return strings.TrimSpace(out.Content), nil
}
