package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const rootBanner = "AI Shopping Assistant backend is running."

type HealthResponse struct {
	Status string `json:"status"`
}

// Health возвращает простой статус сервиса.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Root отвечает текстовым баннером на корневой путь.
func Root(c echo.Context) error {
	return c.String(http.StatusOK, rootBanner)
}
