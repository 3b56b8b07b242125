package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateSource provides the current exchange rate table.
type RateSource interface {
	Rates(ctx context.Context) (Table, error)
}

// StaticSource всегда отдает одну и ту же таблицу.
type StaticSource struct {
	table Table
}

// NewStaticSource создает источник со статической таблицей.
func NewStaticSource(table Table) *StaticSource {
	return &StaticSource{table: table}
}

func (s *StaticSource) Rates(context.Context) (Table, error) {
	return s.table, nil
}

// HTTPSource reads the USD table from the public currency-api feed
// (`<baseURL>/currencies/usd.json`).
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

type feedResponse map[string]json.RawMessage

// NewHTTPSource создает источник живых курсов с заданным таймаутом.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Rates загружает актуальную таблицу курсов.
func (s *HTTPSource) Rates(ctx context.Context) (Table, error) {
	base := strings.ToLower(BaseCurrency)
	endpoint := fmt.Sprintf("%s/currencies/%s.json", s.baseURL, base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Table{}, err
	}

	response, err := s.httpClient.Do(req)
	if err != nil {
		return Table{}, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return Table{}, err
	}

	if response.StatusCode != http.StatusOK {
		return Table{}, fmt.Errorf("rates feed error: status %d", response.StatusCode)
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return Table{}, fmt.Errorf("decode rates feed: %w", err)
	}

	raw, ok := feed[base]
	if !ok {
		return Table{}, errors.New("rates feed missing base currency")
	}

	var rates map[string]decimal.Decimal
	if err := json.Unmarshal(raw, &rates); err != nil {
		return Table{}, fmt.Errorf("decode rates feed: %w", err)
	}

	table := Table{Base: BaseCurrency, Rates: make(map[string]decimal.Decimal, len(rates)+1)}
	for code, rate := range rates {
		if !rate.IsPositive() {
			continue
		}
		table.Rates[NormalizeCode(code)] = rate
	}
	table.Rates[BaseCurrency] = decimal.NewFromInt(1)

	return table, nil
}

// Cache is the key/value store used to keep a fetched table between requests.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

const cacheKey = "rates:" + BaseCurrency

// CachedSource serves the table from Cache and refreshes it from the wrapped
// source when the entry is missing or expired.
type CachedSource struct {
	source RateSource
	cache  Cache
	ttl    time.Duration
}

// NewCachedSource оборачивает источник кэшем с TTL.
func NewCachedSource(source RateSource, cache Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, cache: cache, ttl: ttl}
}

func (s *CachedSource) Rates(ctx context.Context) (Table, error) {
	value, ok, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		slog.Warn("rates cache read failed", slog.String("error", err.Error()))
	}
	if ok {
		var rates map[string]decimal.Decimal
		if err := json.Unmarshal([]byte(value), &rates); err == nil {
			return Table{Base: BaseCurrency, Rates: rates}, nil
		}
		slog.Warn("rates cache entry is corrupted", slog.String("key", cacheKey))
	}

	table, err := s.source.Rates(ctx)
	if err != nil {
		return Table{}, err
	}

	payload, err := json.Marshal(table.Rates)
	if err != nil {
		return table, nil
	}
	if err := s.cache.Set(ctx, cacheKey, string(payload), s.ttl); err != nil {
		slog.Warn("rates cache write failed", slog.String("error", err.Error()))
	}

	return table, nil
}
