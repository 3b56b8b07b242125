package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/ai-shopping-assistant/backend/internal/ai"
	"example.com/ai-shopping-assistant/backend/internal/cart"
	"example.com/ai-shopping-assistant/backend/internal/catalog"
)

const (
	DefaultCurrency         = "INR"
	DefaultTolerancePercent = 20

	finalizedMessage    = "Order successfully finalized! Thank you for shopping with AI Shopping Assistant."
	noItemsFoundMessage = "No recognizable items found in your request. Please try again."
)

// Stage names the steps of request processing; used in logs.
type Stage string

const (
	StageExtracting Stage = "extracting"
	StageMatching   Stage = "matching"
	StageComputing  Stage = "computing"
	StageSuggesting Stage = "suggesting"
	StageResponding Stage = "responding"
)

type Extractor interface {
	Extract(ctx context.Context, command string) (ai.Extraction, error)
}

type Suggester interface {
	Suggest(ctx context.Context, input ai.SuggestionInput) ([]ai.Suggestion, error)
}

// OrderStore records finalized orders. It is optional.
type OrderStore interface {
	CreateOrder(ctx context.Context, order Order) error
}

type Config struct {
	// Currency is the home currency all prices and budgets are kept in.
	Currency string
	// TolerancePercent bounds how far above the budget suggestions may land.
	TolerancePercent int
}

type Request struct {
	Command string
	Lines   []cart.Line
	Budget  decimal.Decimal
}

type Result struct {
	Cart        *cart.Cart
	Budget      decimal.Decimal
	Totals      cart.Totals
	Status      cart.BudgetStatus
	Message     string
	Suggestions []ai.Suggestion
	Unmatched   []string
}

type FinalizeRequest struct {
	Lines       []cart.Line
	ClientTotal decimal.Decimal
	Budget      decimal.Decimal
}

type Order struct {
	ID          uuid.UUID
	Lines       []cart.Line
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Budget      decimal.Decimal
	ClientTotal decimal.Decimal
	CreatedAt   time.Time
}

type Receipt struct {
	Order   Order
	Message string
}

type Service struct {
	catalog   *catalog.Catalog
	offers    *cart.Offers
	extractor Extractor
	suggester Suggester
	orders    OrderStore
	config    Config
}

// NewService собирает конвейер обработки запросов. orders может быть nil.
func NewService(products *catalog.Catalog, offers *cart.Offers, extractor Extractor, suggester Suggester, orders OrderStore, cfg Config) *Service {
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.TolerancePercent < 0 {
		cfg.TolerancePercent = DefaultTolerancePercent
	}

	return &Service{
		catalog:   products,
		offers:    offers,
		extractor: extractor,
		suggester: suggester,
		orders:    orders,
		config:    cfg,
	}
}

// Process разбирает команду, обновляет корзину и считает итоги.
// Присланная корзина не изменяется: работа идет с копией.
func (s *Service) Process(ctx context.Context, req Request) (Result, error) {
	command := strings.TrimSpace(req.Command)
	if command == "" {
		return Result{}, ErrNoCommand
	}

	working, err := s.buildCart(req.Lines)
	if err != nil {
		return Result{}, err
	}

	logger := slog.With(slog.String("component", "assistant"))

	logger.Debug("stage", slog.String("stage", string(StageExtracting)))
	extraction, err := s.extractor.Extract(ctx, command)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	budget := req.Budget
	if budget.IsNegative() {
		budget = decimal.Zero
	}
	if extraction.Budget != nil && *extraction.Budget > 0 {
		budget = decimal.NewFromFloat(*extraction.Budget)
	}

	logger.Debug("stage", slog.String("stage", string(StageMatching)))
	added := 0
	unmatched := make([]string, 0)
	var notFound strings.Builder
	for _, item := range extraction.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}

		product, ok := s.catalog.Match(name)
		if !ok {
			unmatched = append(unmatched, name)
			fmt.Fprintf(&notFound, "Could not find \"%s\". ", name)
			continue
		}

		quantity, err := normalizeQuantity(item.Quantity)
		if err == nil {
			err = working.Add(product, quantity)
		}
		if errors.Is(err, cart.ErrInvalidQuantity) {
			fmt.Fprintf(&notFound, "Could not add \"%s\": at most %d per item. ", name, cart.MaxQuantity)
			continue
		}
		if err != nil {
			return Result{}, err
		}
		added++
	}

	var message strings.Builder
	switch {
	case added > 0:
		fmt.Fprintf(&message, "Added %d item(s) to your cart. ", added)
		message.WriteString(notFound.String())
	case notFound.Len() > 0:
		message.WriteString(notFound.String())
	default:
		message.WriteString(noItemsFoundMessage)
	}

	logger.Debug("stage", slog.String("stage", string(StageComputing)))
	totals := cart.Price(working, s.offers)
	message.WriteString(totals.Offers.Description)

	status := cart.EvaluateBudget(totals.Total, budget)
	message.WriteString(status.Message)

	suggestions := make([]ai.Suggestion, 0)
	if status.Exceeded {
		logger.Debug("stage", slog.String("stage", string(StageSuggesting)))
		suggestions = s.suggest(ctx, working, totals.Total, budget)
	}

	logger.Debug("stage", slog.String("stage", string(StageResponding)),
		slog.Int("added", added), slog.Int("unmatched", len(unmatched)), slog.Int("lines", working.Len()))

	return Result{
		Cart:        working,
		Budget:      budget,
		Totals:      totals,
		Status:      status,
		Message:     message.String(),
		Suggestions: suggestions,
		Unmatched:   unmatched,
	}, nil
}

// Finalize пересчитывает итоги и оформляет заказ.
func (s *Service) Finalize(ctx context.Context, req FinalizeRequest) (Receipt, error) {
	working, err := s.buildCart(req.Lines)
	if err != nil {
		return Receipt{}, err
	}
	if working.IsEmpty() {
		return Receipt{}, ErrEmptyCart
	}

	totals := cart.Price(working, s.offers)
	order := Order{
		ID:          uuid.New(),
		Lines:       working.Lines(),
		Subtotal:    totals.Subtotal,
		Discount:    totals.Discount,
		Total:       totals.Total,
		Budget:      req.Budget,
		ClientTotal: req.ClientTotal,
		CreatedAt:   time.Now().UTC(),
	}

	if !req.ClientTotal.Round(2).Equal(totals.Total.Round(2)) {
		slog.Warn("client total differs from computed total",
			slog.String("order_id", order.ID.String()),
			slog.String("client_total", req.ClientTotal.StringFixed(2)),
			slog.String("total", totals.Total.StringFixed(2)))
	}

	slog.Info("order finalized",
		slog.String("order_id", order.ID.String()),
		slog.Int("lines", len(order.Lines)),
		slog.String("total", order.Total.StringFixed(2)),
		slog.String("budget", order.Budget.StringFixed(2)))

	if s.orders != nil {
		if err := s.orders.CreateOrder(ctx, order); err != nil {
			slog.Warn("order store failed", slog.String("order_id", order.ID.String()), slog.String("error", err.Error()))
		}
	}

	return Receipt{Order: order, Message: finalizedMessage}, nil
}

func (s *Service) suggest(ctx context.Context, working *cart.Cart, total, budget decimal.Decimal) []ai.Suggestion {
	if s.suggester == nil {
		return []ai.Suggestion{}
	}

	input := ai.SuggestionInput{
		Currency:  s.config.Currency,
		TotalBill: total,
		Budget:    budget,
		MaxTotal:  maxTotal(budget, s.config.TolerancePercent),
	}
	for _, line := range working.Lines() {
		input.Cart = append(input.Cart, ai.CartItemSnapshot{
			Name:     line.Name,
			Brand:    line.Brand,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}
	for _, product := range s.catalog.Products() {
		input.Products = append(input.Products, ai.ProductSnapshot{
			Name:  product.Name,
			Brand: product.Brand,
			Price: product.Price,
		})
	}

	suggestions, err := s.suggester.Suggest(ctx, input)
	if err != nil {
		slog.Warn("suggestions unavailable", slog.String("error", err.Error()))
		return []ai.Suggestion{}
	}
	if suggestions == nil {
		return []ai.Suggestion{}
	}
	return suggestions
}

// buildCart нормализует корзину клиента: категории дополняются из каталога.
func (s *Service) buildCart(lines []cart.Line) (*cart.Cart, error) {
	normalized := make([]cart.Line, len(lines))
	copy(normalized, lines)
	for i := range normalized {
		if normalized[i].Category != "" {
			continue
		}
		if product, ok := s.catalog.Lookup(strings.TrimSpace(normalized[i].ProductID)); ok {
			normalized[i].Category = product.Category
		}
	}

	c, err := cart.FromLines(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCart, err)
	}
	return c, nil
}

// normalizeQuantity округляет количество от модели: нет значения или <= 0 дает 1,
// дробное округляется вверх от половины. Больше cart.MaxQuantity — ошибка.
func normalizeQuantity(value *float64) (int, error) {
	if value == nil || *value <= 0 {
		return 1, nil
	}
	if *value >= float64(cart.MaxQuantity)+0.5 {
		return 0, cart.ErrInvalidQuantity
	}
	rounded := decimal.NewFromFloat(*value).Round(0).IntPart()
	if rounded < 1 {
		return 1, nil
	}
	return int(rounded), nil
}

func maxTotal(budget decimal.Decimal, tolerancePercent int) decimal.Decimal {
	factor := decimal.NewFromInt(int64(100 + tolerancePercent)).Div(decimal.NewFromInt(100))
	return budget.Mul(factor)
}
