package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"example.com/ai-shopping-assistant/backend/internal/metrics"
)

// Conversion is the outcome of a conversion request. When Converted is false
// Amount is the original amount and Warning explains why.
type Conversion struct {
	Amount    decimal.Decimal
	Currency  string
	Converted bool
	Warning   string
}

type Service struct {
	source  RateSource
	home    string
	metrics *metrics.Metrics
}

// NewService создает сервис конвертации; home — домашняя валюта магазина.
func NewService(source RateSource, home string, m *metrics.Metrics) *Service {
	return &Service{source: source, home: NormalizeCode(home), metrics: m}
}

// Home возвращает домашнюю валюту.
func (s *Service) Home() string {
	return s.home
}

// Table возвращает текущую таблицу курсов.
func (s *Service) Table(ctx context.Context) (Table, error) {
	table, err := s.source.Rates(ctx)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrRatesUnavailable, err)
	}
	return table, nil
}

// Convert переводит сумму из from в to. Пустой from означает домашнюю валюту.
// Недоступные курсы и неизвестные коды не считаются ошибкой запроса: сумма
// возвращается в исходной валюте вместе с предупреждением.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) Conversion {
	from = NormalizeCode(from)
	if from == "" {
		from = s.home
	}
	to = NormalizeCode(to)

	table, err := s.Table(ctx)
	if err != nil {
		return s.fallback(amount, from, to, err)
	}

	converted, err := table.Convert(amount, from, to)
	if err != nil {
		failed := to
		if _, ok := table.Rate(from); !ok {
			failed = from
		}
		return s.fallback(amount, from, failed, err)
	}

	s.metrics.IncConversion(metrics.OutcomeSuccess)
	return Conversion{Amount: converted, Currency: to, Converted: true}
}

// fallback возвращает сумму без конвертации; failed — код, для которого нет курса.
func (s *Service) fallback(amount decimal.Decimal, from, failed string, err error) Conversion {
	warning := "Exchange rates are unavailable; amount is shown unconverted."
	if errors.Is(err, ErrUnknownCurrency) {
		warning = fmt.Sprintf("Exchange rate for %s not found; amount is shown unconverted.", failed)
	}

	slog.Warn("currency conversion fallback",
		slog.String("from", from),
		slog.String("failed", failed),
		slog.String("error", err.Error()))
	s.metrics.IncConversion(metrics.OutcomeFallback)

	return Conversion{Amount: amount, Currency: from, Warning: warning}
}
