package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/ai-shopping-assistant/backend/internal/catalog"
)

type ProductHandler struct {
	Catalog *catalog.Catalog
}

// NewProductHandler создает обработчик каталога.
func NewProductHandler(products *catalog.Catalog) *ProductHandler {
	return &ProductHandler{Catalog: products}
}

type ProductDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit,omitempty"`
	Category string  `json:"category"`
}

type ProductsResponse struct {
	Products []ProductDTO `json:"products"`
}

// List возвращает товары каталога в исходном порядке.
func (h *ProductHandler) List(c echo.Context) error {
	products := h.Catalog.Products()
	out := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		out = append(out, ProductDTO{
			ID:       product.ID,
			Name:     product.Name,
			Brand:    product.Brand,
			Price:    product.Price.InexactFloat64(),
			Unit:     product.Unit,
			Category: product.Category,
		})
	}

	return c.JSON(http.StatusOK, ProductsResponse{Products: out})
}
