package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"example.com/ai-shopping-assistant/backend/internal/ai"
	"example.com/ai-shopping-assistant/backend/internal/config"
	"example.com/ai-shopping-assistant/backend/internal/currency"
)

type scriptedClient struct {
	extract string
	suggest string
}

func (c scriptedClient) Chat(_ context.Context, request ai.ChatRequest) (ai.ChatResponse, error) {
	if _, ok := request.Schema["properties"].(map[string]any)["suggestions"]; ok {
		return ai.ChatResponse{Text: c.suggest}, nil
	}
	return ai.ChatResponse{Text: c.extract}, nil
}

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 3001},
		AI: config.AIConfig{
			Provider:                   "gemini",
			Model:                      "gemini-2.0-flash",
			RateLimitPerMinute:         60,
			RateLimitBurst:             5,
			SuggestionTolerancePercent: 20,
		},
		Currency: config.CurrencyConfig{Home: "INR", Provider: config.RatesProviderStatic},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func newTestServer(client ai.Client) http.Handler {
	return New(testConfig(), nil, Dependencies{Registry: prometheus.NewRegistry(), AIClient: client})
}

func do(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestProcessRequestEndToEnd проверяет полный конвейер через HTTP.
func TestProcessRequestEndToEnd(t *testing.T) {
	handler := newTestServer(scriptedClient{
		extract: `{"items":[{"name":"milk","quantity":2},{"name":"bread","quantity":1}],"budget":10}`,
		suggest: `{"suggestions":[{"item":"Milk","reason":"Choose Local Brand Milk"}]}`,
	})

	rec := do(handler, http.MethodPost, "/api/process-request", `{"command":"2 milk and bread, budget 10","currentCart":[],"currentBudget":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		TotalBill   float64 `json:"totalBill"`
		Budget      float64 `json:"budget"`
		Message     string  `json:"message"`
		Suggestions []struct {
			Item string `json:"item"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalBill != 11.8 || body.Budget != 10 {
		t.Fatalf("unexpected totals: %+v", body)
	}
	if len(body.Suggestions) != 1 || body.Suggestions[0].Item != "Milk" {
		t.Fatalf("unexpected suggestions: %+v", body.Suggestions)
	}
	if !strings.Contains(body.Message, "exceeds your budget") {
		t.Fatalf("expected budget message, got %q", body.Message)
	}

	metrics := do(handler, http.MethodGet, "/metrics", "")
	if metrics.Code != http.StatusOK || !strings.Contains(metrics.Body.String(), "assistant_ai_calls_total") {
		t.Fatalf("expected ai metrics, got %d", metrics.Code)
	}
}

// TestPublicRoutes проверяет служебные и справочные маршруты.
func TestPublicRoutes(t *testing.T) {
	handler := newTestServer(scriptedClient{})

	for _, path := range []string{"/", "/health", "/api/products", "/api/currencies"} {
		rec := do(handler, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}

	rec := do(handler, http.MethodPost, "/api/currency-convert", `{"amount":83.5,"targetCurrency":"USD"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"convertedAmount":1`) {
		t.Fatalf("unexpected conversion response: %d %s", rec.Code, rec.Body.String())
	}
}

// TestProcessRequestRateLimited проверяет ограничение частоты AI-запросов.
func TestProcessRequestRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.AI.RateLimitPerMinute = 1
	cfg.AI.RateLimitBurst = 1
	handler := New(cfg, nil, Dependencies{Registry: prometheus.NewRegistry(), AIClient: scriptedClient{extract: `{"items":[]}`}})

	first := do(handler, http.MethodPost, "/api/process-request", `{"command":"hi"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := do(handler, http.MethodPost, "/api/process-request", `{"command":"hi"}`)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
}

// TestNewRateSource проверяет выбор источника курсов.
func TestNewRateSource(t *testing.T) {
	if _, ok := newRateSource(config.CurrencyConfig{Provider: config.RatesProviderStatic}, nil).(*currency.StaticSource); !ok {
		t.Fatal("expected static source")
	}
	if _, ok := newRateSource(config.CurrencyConfig{Provider: config.RatesProviderLive, Timeout: time.Second}, nil).(*currency.HTTPSource); !ok {
		t.Fatal("expected http source without cache")
	}
}

// TestNewAIClient проверяет выбор провайдера.
func TestNewAIClient(t *testing.T) {
	if _, ok := newAIClient(config.AIConfig{Provider: "groq"}).(*ai.GroqClient); !ok {
		t.Fatal("expected groq client")
	}
	if _, ok := newAIClient(config.AIConfig{Provider: "gemini"}).(*ai.GeminiClient); !ok {
		t.Fatal("expected gemini client")
	}
}
