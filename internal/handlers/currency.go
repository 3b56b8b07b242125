package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/ai-shopping-assistant/backend/internal/assistant"
	"example.com/ai-shopping-assistant/backend/internal/currency"
)

const (
	msgInvalidConversion = "Invalid amount or target currency provided."
	msgRatesUnavailable  = "Exchange rates are unavailable."
)

type CurrencyHandler struct {
	Service *currency.Service
}

// NewCurrencyHandler создает обработчик конвертации валют.
func NewCurrencyHandler(service *currency.Service) *CurrencyHandler {
	return &CurrencyHandler{Service: service}
}

type ConvertRequest struct {
	Amount         *float64 `json:"amount"`
	TargetCurrency string   `json:"targetCurrency"`
	SourceCurrency string   `json:"sourceCurrency"`
}

type ConvertResponse struct {
	ConvertedAmount float64 `json:"convertedAmount"`
	Currency        string  `json:"currency"`
	Converted       bool    `json:"converted"`
	Warning         string  `json:"warning,omitempty"`
}

type RatesResponse struct {
	Base       string             `json:"base"`
	Home       string             `json:"home"`
	Currencies []string           `json:"currencies"`
	Rates      map[string]float64 `json:"rates"`
}

// Convert переводит сумму в целевую валюту.
func (h *CurrencyHandler) Convert(c echo.Context) error {
	var req ConvertRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, msgInvalidConversion)
	}
	if req.Amount == nil || strings.TrimSpace(req.TargetCurrency) == "" {
		return badRequest(c, msgInvalidConversion)
	}

	result := h.Service.Convert(c.Request().Context(), decimal.NewFromFloat(*req.Amount), req.SourceCurrency, req.TargetCurrency)

	return c.JSON(http.StatusOK, ConvertResponse{
		ConvertedAmount: money(result.Amount),
		Currency:        result.Currency,
		Converted:       result.Converted,
		Warning:         result.Warning,
	})
}

// Rates возвращает текущую таблицу курсов.
func (h *CurrencyHandler) Rates(c echo.Context) error {
	table, err := h.Service.Table(c.Request().Context())
	if err != nil {
		slog.Warn("exchange rates unavailable",
			slog.String("kind", assistant.KindOf(err).String()),
			slog.String("error", err.Error()))
		return unavailable(c, msgRatesUnavailable)
	}

	rates := make(map[string]float64, len(table.Rates))
	codes := make([]string, 0, len(table.Rates))
	for code, rate := range table.Rates {
		rates[code] = rate.InexactFloat64()
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return c.JSON(http.StatusOK, RatesResponse{
		Base:       table.Base,
		Home:       h.Service.Home(),
		Currencies: codes,
		Rates:      rates,
	})
}
