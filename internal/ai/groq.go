package ai

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

// GroqClient calls the Groq OpenAI-compatible chat completions API in JSON
// mode. The schema is not sent; prompts describe the expected shape.
type GroqClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type groqChatRequest struct {
	Model          string             `json:"model"`
	Messages       []Message          `json:"messages"`
	Temperature    float64            `json:"temperature"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	ResponseFormat groqResponseFormat `json:"response_format"`
}

type groqResponseFormat struct {
	Type string `json:"type"`
}

type groqChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGroqClient создает клиент Groq с заданными параметрами.
func NewGroqClient(apiKey, baseURL, model string, timeout time.Duration, maxTokens int) *GroqClient {
	return &GroqClient{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat отправляет сообщения в Groq и возвращает текст ответа и сырой ответ API.
func (c *GroqClient) Chat(ctx context.Context, request ChatRequest) (ChatResponse, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return ChatResponse{}, fmt.Errorf("groq: %w", ErrMissingAPIKey)
	}

	payload, err := json.Marshal(groqChatRequest{
		Model:          c.model,
		Messages:       request.Messages,
		Temperature:    0.1,
		MaxTokens:      resolveMaxTokens(c.maxTokens),
		ResponseFormat: groqResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return ChatResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return ChatResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return ChatResponse{}, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return ChatResponse{}, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var apiErr groqChatResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
			return ChatResponse{Raw: body}, fmt.Errorf("groq api error: %s", apiErr.Error.Message)
		}
		return ChatResponse{Raw: body}, fmt.Errorf("groq api error: status %d", response.StatusCode)
	}

	var parsed groqChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ChatResponse{Raw: body}, err
	}

	if len(parsed.Choices) == 0 {
		return ChatResponse{Raw: body}, errors.New("groq response missing choices")
	}

	return ChatResponse{Text: parsed.Choices[0].Message.Content, Raw: body}, nil
}
