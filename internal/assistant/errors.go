package assistant

import (
	"errors"

	"example.com/ai-shopping-assistant/backend/internal/ai"
	"example.com/ai-shopping-assistant/backend/internal/cart"
	"example.com/ai-shopping-assistant/backend/internal/currency"
)

var (
	ErrNoCommand   = errors.New("no command provided")
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidCart = errors.New("invalid cart")
	ErrExtraction  = errors.New("item extraction failed")
)

// Kind classifies pipeline errors for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindInputValidation
	KindExternalService
	KindRateLookup
)

func (k Kind) String() string {
	switch k {
	case KindInputValidation:
		return "input_validation"
	case KindExternalService:
		return "external_service"
	case KindRateLookup:
		return "rate_lookup"
	default:
		return "internal"
	}
}

// KindOf возвращает класс ошибки; неизвестные ошибки считаются внутренними.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrNoCommand),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidCart),
		errors.Is(err, cart.ErrInvalidLine),
		errors.Is(err, cart.ErrInvalidQuantity):
		return KindInputValidation
	case errors.Is(err, ErrExtraction),
		errors.Is(err, ai.ErrMalformedResponse),
		errors.Is(err, ai.ErrMissingAPIKey):
		return KindExternalService
	case errors.Is(err, currency.ErrRatesUnavailable),
		errors.Is(err, currency.ErrUnknownCurrency):
		return KindRateLookup
	default:
		return KindInternal
	}
}
