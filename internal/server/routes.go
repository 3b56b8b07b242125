package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/ai-shopping-assistant/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	shoppingHandler *handlers.ShoppingHandler,
	currencyHandler *handlers.CurrencyHandler,
	productHandler *handlers.ProductHandler,
	notificationHandler *handlers.NotificationHandler,
	metricsHandler http.Handler,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/", handlers.Root)
	e.GET("/health", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	api := e.Group("/api")
	api.POST("/process-request", shoppingHandler.ProcessRequest, aiRateLimiter)
	api.POST("/finalize-order", shoppingHandler.FinalizeOrder)
	api.POST("/currency-convert", currencyHandler.Convert)
	api.GET("/currencies", currencyHandler.Rates)
	api.GET("/products", productHandler.List)
	api.GET("/orders/stream", notificationHandler.OrderStream)
}
