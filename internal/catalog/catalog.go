package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product описывает позицию каталога. Цена задана в домашней валюте.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Brand    string          `json:"brand"`
	Price    decimal.Decimal `json:"price"`
	Unit     string          `json:"unit,omitempty"`
	Category string          `json:"category"`
}

// Catalog хранит неизменяемый список товаров в объявленном порядке.
type Catalog struct {
	products []Product
}

// New создает каталог из списка товаров, сохраняя порядок.
func New(products []Product) *Catalog {
	items := make([]Product, len(products))
	copy(items, products)
	return &Catalog{products: items}
}

// Default возвращает встроенный каталог магазина.
func Default() *Catalog {
	return New(defaultProducts)
}

// Products возвращает копию списка товаров.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Match ищет товар по свободному названию: название товара входит в запрос
// или запрос входит в название товара, без учета регистра. Побеждает первый
// совпавший товар в порядке каталога.
func (c *Catalog) Match(query string) (Product, bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return Product{}, false
	}

	for _, product := range c.products {
		name := strings.ToLower(product.Name)
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return product, true
		}
	}

	return Product{}, false
}

// Lookup возвращает товар по идентификатору.
func (c *Catalog) Lookup(id string) (Product, bool) {
	for _, product := range c.products {
		if product.ID == id {
			return product, true
		}
	}

	return Product{}, false
}
