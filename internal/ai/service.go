package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"example.com/ai-shopping-assistant/backend/internal/metrics"
)

const (
	RequestTypeExtract = "extract_items"
	RequestTypeSuggest = "suggest_alternatives"

	systemPrompt = "You are a grocery shopping assistant. Respond with JSON only, without extra text."
)

var extractionSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"items": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"name":     map[string]any{"type": "STRING"},
					"quantity": map[string]any{"type": "NUMBER"},
				},
			},
		},
		"budget": map[string]any{"type": "NUMBER"},
	},
	"required": []string{"items"},
}

var suggestionSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"suggestions": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"item":   map[string]any{"type": "STRING"},
					"reason": map[string]any{"type": "STRING"},
				},
			},
		},
	},
}

type Service struct {
	client   Client
	provider string
	model    string
	recorder Recorder
	metrics  *metrics.Metrics
}

// NewService создает сервис работы с AI-клиентом. recorder и m могут быть nil.
func NewService(client Client, provider, model string, recorder Recorder, m *metrics.Metrics) *Service {
	return &Service{
		client:   client,
		provider: provider,
		model:    model,
		recorder: recorder,
		metrics:  m,
	}
}

// Extract разбирает команду покупателя на товары, количества и бюджет.
func (s *Service) Extract(ctx context.Context, command string) (Extraction, error) {
	prompt := buildExtractionPrompt(command)

	var response Extraction
	if err := s.call(ctx, RequestTypeExtract, prompt, extractionSchema, &response); err != nil {
		return Extraction{}, err
	}

	normalizeExtraction(&response)
	return response, nil
}

// Suggest запрашивает более дешевые альтернативы для корзины сверх бюджета.
func (s *Service) Suggest(ctx context.Context, input SuggestionInput) ([]Suggestion, error) {
	prompt := buildSuggestionPrompt(input)

	var response SuggestionResponse
	if err := s.call(ctx, RequestTypeSuggest, prompt, suggestionSchema, &response); err != nil {
		return nil, err
	}

	return normalizeSuggestions(response.Suggestions), nil
}

func (s *Service) call(ctx context.Context, requestType, prompt string, schema map[string]any, target any) error {
	started := time.Now()
	response, err := s.client.Chat(ctx, ChatRequest{
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Schema: schema,
	})
	if err == nil {
		if parseErr := parseJSON(response.Text, target); parseErr != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedResponse, parseErr)
		}
	}

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	s.metrics.ObserveAICall(requestType, outcome, time.Since(started))
	s.record(ctx, requestType, prompt, target, response.Raw, err)

	return err
}

func (s *Service) record(ctx context.Context, requestType, prompt string, parsed any, raw []byte, callErr error) {
	if s.recorder == nil {
		return
	}

	record := CallRecord{
		RequestType: requestType,
		Provider:    s.provider,
		Model:       s.model,
		Prompt:      prompt,
		RawResponse: raw,
		Success:     callErr == nil,
	}
	if callErr != nil {
		record.ErrorMessage = callErr.Error()
	} else if payload, err := json.Marshal(parsed); err == nil {
		record.ResponsePayload = payload
	}

	// Аудит не должен ломать основной запрос.
	_ = s.recorder.LogRequest(ctx, record)
}

func buildExtractionPrompt(command string) string {
	return fmt.Sprintf(`Analyze the following shopping request.
Extract the list of items with their quantities.
If a budget is mentioned, extract it as a number.
If no quantity is specified for an item, assume 1.
If no budget is specified, do not include the budget field.

Example 1: "I need 2 gallons of milk, a loaf of bread, and some apples. My budget is 500 rupees."
Output: {"items": [{"name": "milk", "quantity": 2}, {"name": "bread", "quantity": 1}, {"name": "apples", "quantity": 1}], "budget": 500}

Example 2: "Add 3 bottles of coke and a bag of rice."
Output: {"items": [{"name": "coke", "quantity": 3}, {"name": "rice", "quantity": 1}]}

Example 3: "I want to buy shampoo and laundry detergent."
Output: {"items": [{"name": "shampoo", "quantity": 1}, {"name": "laundry detergent", "quantity": 1}]}

User request: %q`, command)
}

func buildSuggestionPrompt(input SuggestionInput) string {
	cartParts := make([]string, 0, len(input.Cart))
	for _, item := range input.Cart {
		cartParts = append(cartParts, fmt.Sprintf("%d x %s (%s)", item.Quantity, item.Name, item.Brand))
	}

	productParts := make([]string, 0, len(input.Products))
	for _, product := range input.Products {
		productParts = append(productParts, fmt.Sprintf("%s (%s) at %s", product.Name, product.Brand, formatMoney(input.Currency, product.Price)))
	}

	return fmt.Sprintf(`The user's current shopping cart total is %s, which exceeds their budget of %s.
The current items in their cart are: %s.
Suggest ways to bring the total closer to the budget, focusing on cheaper alternatives from the following available products:
%s.
The difference should be as small as possible. The new total should stay at or below the budget and must never exceed %s.
Provide suggestions in a structured JSON format, listing item and a brief reason.
Output example:
{"suggestions": [{"item": "Milk", "reason": "Choose the cheaper Local Brand Milk instead of Great Value Whole Milk to save per gallon."}]}`,
		formatMoney(input.Currency, input.TotalBill),
		formatMoney(input.Currency, input.Budget),
		strings.Join(cartParts, ", "),
		strings.Join(productParts, "; "),
		formatMoney(input.Currency, input.MaxTotal),
	)
}

func formatMoney(currency string, amount decimal.Decimal) string {
	if strings.EqualFold(currency, "INR") || currency == "" {
		return "₹" + amount.StringFixed(2)
	}
	return strings.ToUpper(currency) + " " + amount.StringFixed(2)
}

func normalizeExtraction(response *Extraction) {
	if response.Items == nil {
		response.Items = []ExtractedItem{}
	}
	for i := range response.Items {
		response.Items[i].Name = strings.TrimSpace(response.Items[i].Name)
	}
}

func normalizeSuggestions(items []Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(items))
	for _, item := range items {
		item.Item = strings.TrimSpace(item.Item)
		item.Reason = strings.TrimSpace(item.Reason)
		if item.Item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func parseJSON(input string, target any) error {
	payload := extractJSON(input)
	if payload == "" {
		return errors.New("ai response does not contain json")
	}

	return json.Unmarshal([]byte(payload), target)
}

func extractJSON(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "json")
		trimmed = strings.TrimSpace(trimmed)
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return trimmed[start : end+1]
}
