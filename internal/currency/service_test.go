package currency

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type failingSource struct{}

func (failingSource) Rates(context.Context) (Table, error) {
	return Table{}, errors.New("feed down")
}

func TestServiceConvertDefaultsToHome(t *testing.T) {
	svc := NewService(NewStaticSource(DefaultTable()), "inr", nil)
	require.Equal(t, "INR", svc.Home())

	result := svc.Convert(context.Background(), decimal.RequireFromString("835"), "", "usd")
	require.True(t, result.Converted)
	require.Equal(t, "USD", result.Currency)
	require.Empty(t, result.Warning)
	require.Equal(t, "10.00", result.Amount.StringFixed(2))
}

func TestServiceUnknownCurrencyFallsBack(t *testing.T) {
	svc := NewService(NewStaticSource(DefaultTable()), "INR", nil)
	amount := decimal.RequireFromString("250.00")

	result := svc.Convert(context.Background(), amount, "INR", "JPY")
	require.False(t, result.Converted)
	require.True(t, result.Amount.Equal(amount))
	require.Contains(t, result.Warning, "JPY")
	require.Equal(t, "INR", result.Currency)
}

func TestServiceUnknownSourceCurrencyNamesSource(t *testing.T) {
	svc := NewService(NewStaticSource(DefaultTable()), "INR", nil)
	amount := decimal.RequireFromString("40")

	result := svc.Convert(context.Background(), amount, "chf", "USD")
	require.False(t, result.Converted)
	require.True(t, result.Amount.Equal(amount))
	require.Equal(t, "CHF", result.Currency)
	require.Contains(t, result.Warning, "CHF")
	require.NotContains(t, result.Warning, "USD")
}

func TestServiceSourceFailureFallsBack(t *testing.T) {
	svc := NewService(failingSource{}, "INR", nil)
	amount := decimal.RequireFromString("99.99")

	result := svc.Convert(context.Background(), amount, "INR", "USD")
	require.False(t, result.Converted)
	require.True(t, result.Amount.Equal(amount))
	require.NotEmpty(t, result.Warning)
	require.Equal(t, "INR", result.Currency)

	_, err := svc.Table(context.Background())
	require.ErrorIs(t, err, ErrRatesUnavailable)
}
