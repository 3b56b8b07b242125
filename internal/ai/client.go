package ai

import (
	"context"
	"errors"
)

var (
	ErrMissingAPIKey     = errors.New("ai api key is missing")
	ErrMalformedResponse = errors.New("ai response is malformed")
)

const defaultMaxTokens = 2048

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single structured-output call. Schema, when set, is an
// OpenAPI-style object schema the provider should constrain the answer to.
type ChatRequest struct {
	Messages []Message
	Schema   map[string]any
}

// ChatResponse carries the answer text and the raw API body for auditing.
type ChatResponse struct {
	Text string
	Raw  []byte
}

type Client interface {
	Chat(ctx context.Context, request ChatRequest) (ChatResponse, error)
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}
