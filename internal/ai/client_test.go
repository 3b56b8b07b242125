package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestGeminiChat проверяет формирование запроса и разбор ответа Gemini.
func TestGeminiChat(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "key" {
			t.Errorf("missing api key header")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"items\":"},{"text":"[]}"}]}}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient("key", server.URL+"/", "gemini-2.0-flash", time.Second, 0)
	response, err := client.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "hello"}},
		Schema:   extractionSchema,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Text != `{"items":[]}` {
		t.Fatalf("unexpected text: %s", response.Text)
	}
	if len(response.Raw) == 0 {
		t.Fatal("expected raw body")
	}

	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text != "sys" {
		t.Fatalf("expected system instruction, got %+v", captured.SystemInstruction)
	}
	if len(captured.Contents) != 1 || captured.Contents[0].Role != "user" {
		t.Fatalf("unexpected contents: %+v", captured.Contents)
	}
	if captured.GenerationConfig.ResponseMimeType != "application/json" || captured.GenerationConfig.ResponseSchema == nil {
		t.Fatalf("expected json mode with schema, got %+v", captured.GenerationConfig)
	}
	if captured.GenerationConfig.MaxOutputTokens != defaultMaxTokens {
		t.Fatalf("expected default max tokens, got %d", captured.GenerationConfig.MaxOutputTokens)
	}
}

// TestGeminiChatAPIError проверяет разбор ошибки API Gemini.
func TestGeminiChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient("key", server.URL, "m", time.Second, 100)
	_, err := client.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
	if err == nil || err.Error() != "gemini api error: quota exceeded" {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestGroqChat проверяет JSON-режим и разбор ответа Groq.
func TestGroqChat(t *testing.T) {
	var captured groqChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"suggestions\":[]}"}}]}`))
	}))
	defer server.Close()

	client := NewGroqClient("key", server.URL, "llama-3.1-8b-instant", time.Second, 512)
	response, err := client.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Text != `{"suggestions":[]}` {
		t.Fatalf("unexpected text: %s", response.Text)
	}
	if captured.ResponseFormat.Type != "json_object" || captured.MaxTokens != 512 || captured.Model != "llama-3.1-8b-instant" {
		t.Fatalf("unexpected request: %+v", captured)
	}
}

// TestClientsRequireAPIKey проверяет ошибку без ключа API.
func TestClientsRequireAPIKey(t *testing.T) {
	clients := []Client{
		NewGeminiClient("", "http://localhost", "m", time.Second, 0),
		NewGroqClient(" ", "http://localhost", "m", time.Second, 0),
	}
	for _, client := range clients {
		if _, err := client.Chat(context.Background(), ChatRequest{}); !errors.Is(err, ErrMissingAPIKey) {
			t.Fatalf("expected ErrMissingAPIKey, got %v", err)
		}
	}
}
