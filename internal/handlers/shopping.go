package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/ai-shopping-assistant/backend/internal/assistant"
	"example.com/ai-shopping-assistant/backend/internal/cart"
	"example.com/ai-shopping-assistant/backend/internal/notifications"
)

const (
	msgNoCommand       = "No command provided."
	msgProcessingError = "Error processing your request with AI. Please try again."
	msgInvalidCart     = "Invalid cart provided."
	msgEmptyCart       = "Cart is empty. Nothing to finalize."
)

type ShoppingHandler struct {
	Service  *assistant.Service
	Notifier *notifications.Hub
}

// NewShoppingHandler создает обработчик команд покупателя и оформления заказа.
func NewShoppingHandler(service *assistant.Service, notifier *notifications.Hub) *ShoppingHandler {
	return &ShoppingHandler{Service: service, Notifier: notifier}
}

type CartItemDTO struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=1,lte=10000"`
}

type SuggestionDTO struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

type ProcessRequest struct {
	Command       string        `json:"command"`
	CurrentCart   []CartItemDTO `json:"currentCart" validate:"dive"`
	CurrentBudget Amount        `json:"currentBudget"`
}

type ProcessResponse struct {
	UpdatedCart    []CartItemDTO   `json:"updatedCart"`
	Budget         float64         `json:"budget"`
	Subtotal       float64         `json:"subtotal"`
	Discount       float64         `json:"discount"`
	TotalBill      float64         `json:"totalBill"`
	BudgetExceeded bool            `json:"budgetExceeded"`
	AppliedOffers  []string        `json:"appliedOffers"`
	Message        string          `json:"message"`
	Suggestions    []SuggestionDTO `json:"suggestions"`
	Unmatched      []string        `json:"unmatched"`
}

type FinalizeRequest struct {
	ShoppingList []CartItemDTO `json:"shoppingList" validate:"dive"`
	TotalBill    Amount        `json:"totalBill"`
	Budget       Amount        `json:"budget"`
}

type FinalizeResponse struct {
	Message   string  `json:"message"`
	OrderID   string  `json:"orderId"`
	TotalBill float64 `json:"totalBill"`
}

// ProcessRequest обрабатывает голосовую или текстовую команду покупателя.
func (h *ShoppingHandler) ProcessRequest(c echo.Context) error {
	var req ProcessRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}
	if strings.TrimSpace(req.Command) == "" {
		return badRequest(c, msgNoCommand)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, msgInvalidCart)
	}

	result, err := h.Service.Process(c.Request().Context(), assistant.Request{
		Command: req.Command,
		Lines:   toLines(req.CurrentCart),
		Budget:  req.CurrentBudget.Decimal,
	})
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrNoCommand):
			return badRequest(c, msgNoCommand)
		case assistant.KindOf(err) == assistant.KindInputValidation:
			return badRequest(c, msgInvalidCart)
		default:
			slog.Error("process request failed",
				slog.String("kind", assistant.KindOf(err).String()),
				slog.String("error", err.Error()))
			return serverError(c, msgProcessingError)
		}
	}

	suggestions := make([]SuggestionDTO, 0, len(result.Suggestions))
	for _, suggestion := range result.Suggestions {
		suggestions = append(suggestions, SuggestionDTO{Item: suggestion.Item, Reason: suggestion.Reason})
	}

	applied := result.Totals.Offers.Applied
	if applied == nil {
		applied = []string{}
	}

	return c.JSON(http.StatusOK, ProcessResponse{
		UpdatedCart:    toDTOs(result.Cart.Lines()),
		Budget:         money(result.Budget),
		Subtotal:       money(result.Totals.Subtotal),
		Discount:       money(result.Totals.Discount),
		TotalBill:      money(result.Totals.Total),
		BudgetExceeded: result.Status.Exceeded,
		AppliedOffers:  applied,
		Message:        result.Message,
		Suggestions:    suggestions,
		Unmatched:      result.Unmatched,
	})
}

// FinalizeOrder оформляет заказ по корзине клиента.
func (h *ShoppingHandler) FinalizeOrder(c echo.Context) error {
	var req FinalizeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, msgInvalidBody)
	}
	if len(req.ShoppingList) == 0 {
		return badRequest(c, msgEmptyCart)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, msgInvalidCart)
	}

	receipt, err := h.Service.Finalize(c.Request().Context(), assistant.FinalizeRequest{
		Lines:       toLines(req.ShoppingList),
		ClientTotal: req.TotalBill.Decimal,
		Budget:      req.Budget.Decimal,
	})
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrEmptyCart):
			return badRequest(c, msgEmptyCart)
		case assistant.KindOf(err) == assistant.KindInputValidation:
			return badRequest(c, msgInvalidCart)
		default:
			slog.Error("finalize order failed", slog.String("error", err.Error()))
			return serverError(c, msgInternal)
		}
	}

	h.Notifier.Publish(notifications.TopicOrders, notifications.Event{
		Type: notifications.EventOrderFinalized,
		Data: map[string]any{
			"orderId":   receipt.Order.ID.String(),
			"items":     len(receipt.Order.Lines),
			"totalBill": money(receipt.Order.Total),
		},
	})

	return c.JSON(http.StatusOK, FinalizeResponse{
		Message:   receipt.Message,
		OrderID:   receipt.Order.ID.String(),
		TotalBill: money(receipt.Order.Total),
	})
}

func toLines(items []CartItemDTO) []cart.Line {
	lines := make([]cart.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, cart.Line{
			ProductID: item.ID,
			Name:      item.Name,
			Brand:     item.Brand,
			Category:  item.Category,
			Price:     decimal.NewFromFloat(item.Price),
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func toDTOs(lines []cart.Line) []CartItemDTO {
	items := make([]CartItemDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, CartItemDTO{
			ID:       line.ProductID,
			Name:     line.Name,
			Brand:    line.Brand,
			Category: line.Category,
			Price:    line.Price.InexactFloat64(),
			Quantity: line.Quantity,
		})
	}
	return items
}
