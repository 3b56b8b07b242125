package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const (
	msgInvalidBody = "Invalid request body."
	msgInternal    = "Internal server error."
)

type MessageResponse struct {
	Message string `json:"message"`
}

// Amount accepts a JSON number or a string. Strings are read up to the first
// non-numeric character ("500 rupees" is 500); strings without a leading
// number, and null, are zero.
type Amount struct {
	decimal.Decimal
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// UnmarshalJSON разбирает число или строку с числом в начале.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		a.Decimal = decimal.Zero
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		a.Decimal = decimal.Zero
		if match := leadingNumber.FindString(strings.TrimSpace(text)); match != "" {
			if value, err := decimal.NewFromString(match); err == nil {
				a.Decimal = value
			}
		}
		return nil
	}

	return a.Decimal.UnmarshalJSON(data)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, MessageResponse{Message: message})
}

func serverError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, MessageResponse{Message: message})
}

func unavailable(c echo.Context, message string) error {
	return c.JSON(http.StatusServiceUnavailable, MessageResponse{Message: message})
}

// money округляет сумму до копеек для ответа клиенту.
func money(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}
