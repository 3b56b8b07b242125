package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const BaseCurrency = "USD"

var (
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrRatesUnavailable = errors.New("exchange rates unavailable")
)

// Table maps a currency code to units of that currency per one unit of Base.
type Table struct {
	Base  string
	Rates map[string]decimal.Decimal
}

// DefaultTable возвращает статическую таблицу курсов относительно USD.
func DefaultTable() Table {
	return Table{
		Base: BaseCurrency,
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"INR": decimal.RequireFromString("83.50"),
			"EUR": decimal.RequireFromString("0.92"),
			"GBP": decimal.RequireFromString("0.79"),
		},
	}
}

// NormalizeCode приводит код валюты к верхнему регистру.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Rate возвращает курс валюты относительно базовой.
func (t Table) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t.Rates[NormalizeCode(code)]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, false
	}
	return rate, true
}

// Convert переводит сумму из одной валюты в другую через базовую валюту.
// Одинаковые валюты возвращают сумму без изменений. Если курса нет,
// возвращается исходная сумма и ErrUnknownCurrency.
func (t Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from, to = NormalizeCode(from), NormalizeCode(to)
	if from == to {
		return amount, nil
	}

	fromRate, ok := t.Rate(from)
	if !ok {
		return amount, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toRate, ok := t.Rate(to)
	if !ok {
		return amount, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}

	return amount.Div(fromRate).Mul(toRate), nil
}
