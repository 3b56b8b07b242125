package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"example.com/ai-shopping-assistant/backend/internal/ai"
	"example.com/ai-shopping-assistant/backend/internal/assistant"
	"example.com/ai-shopping-assistant/backend/internal/cart"
	"example.com/ai-shopping-assistant/backend/internal/catalog"
	"example.com/ai-shopping-assistant/backend/internal/config"
	"example.com/ai-shopping-assistant/backend/internal/currency"
	"example.com/ai-shopping-assistant/backend/internal/handlers"
	"example.com/ai-shopping-assistant/backend/internal/metrics"
	"example.com/ai-shopping-assistant/backend/internal/notifications"
	"example.com/ai-shopping-assistant/backend/internal/repository"
)

// Dependencies are the optional external resources. Nil fields disable the
// features that need them.
type Dependencies struct {
	DB         *pgxpool.Pool
	RatesCache currency.Cache
	Registry   *prometheus.Registry
	AIClient   ai.Client
}

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, deps Dependencies) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	serviceMetrics := metrics.New(registry)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	var recorder ai.Recorder
	var orders assistant.OrderStore
	if deps.DB != nil {
		recorder = repository.NewAIRepository(deps.DB)
		orders = repository.NewOrderRepository(deps.DB)
	}

	aiClient := deps.AIClient
	if aiClient == nil {
		aiClient = newAIClient(cfg.AI)
	}
	aiService := ai.NewService(aiClient, cfg.AI.Provider, cfg.AI.Model, recorder, serviceMetrics)

	products := catalog.Default()
	shopping := assistant.NewService(products, cart.DefaultOffers(), aiService, aiService, orders, assistant.Config{
		Currency:         cfg.Currency.Home,
		TolerancePercent: cfg.AI.SuggestionTolerancePercent,
	})

	rates := newRateSource(cfg.Currency, deps.RatesCache)
	currencyService := currency.NewService(rates, cfg.Currency.Home, serviceMetrics)

	hub := notifications.NewHub()

	registerRoutes(
		e,
		handlers.NewShoppingHandler(shopping, hub),
		handlers.NewCurrencyHandler(currencyService),
		handlers.NewProductHandler(products),
		handlers.NewNotificationHandler(hub),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		aiRateLimiter(cfg.AI),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func newAIClient(cfg config.AIConfig) ai.Client {
	switch cfg.Provider {
	case "groq":
		return ai.NewGroqClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens)
	default:
		return ai.NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens)
	}
}

// newRateSource выбирает источник курсов. Живой фид кэшируется в Redis, если он настроен.
func newRateSource(cfg config.CurrencyConfig, cache currency.Cache) currency.RateSource {
	if cfg.Provider != config.RatesProviderLive {
		return currency.NewStaticSource(currency.DefaultTable())
	}

	var source currency.RateSource = currency.NewHTTPSource(cfg.FeedURL, cfg.Timeout)
	if cache != nil {
		source = currency.NewCachedSource(source, cache, cfg.CacheTTL)
	}
	return source
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func aiRateLimiter(cfg config.AIConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, handlers.MessageResponse{Message: "Too many requests. Please slow down."})
		},
	})
}
