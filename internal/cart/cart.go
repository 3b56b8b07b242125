package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"example.com/ai-shopping-assistant/backend/internal/catalog"
)

// MaxQuantity bounds a single line so price × quantity stays exact and
// quantity sums cannot overflow.
const MaxQuantity = 10000

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 10000")
	ErrInvalidLine     = errors.New("invalid cart line")
)

// Line is a single cart position with the unit price captured when it was added.
type Line struct {
	ProductID string
	Name      string
	Brand     string
	Category  string
	Price     decimal.Decimal
	Quantity  int
}

// Total returns price × quantity for the line.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines in insertion order; product ids are unique.
type Cart struct {
	lines []Line
}

// New возвращает пустую корзину.
func New() *Cart {
	return &Cart{}
}

// FromLines собирает корзину из строк, присланных клиентом. Повторяющиеся
// товары объединяются, цена берется из первой строки.
func FromLines(lines []Line) (*Cart, error) {
	c := New()
	for i, line := range lines {
		line.ProductID = strings.TrimSpace(line.ProductID)
		if line.ProductID == "" {
			return nil, fmt.Errorf("%w: line %d has no product id", ErrInvalidLine, i)
		}
		if !validQuantity(line.Quantity) {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidLine, i, ErrInvalidQuantity)
		}
		if line.Price.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has negative price", ErrInvalidLine, i)
		}

		if idx := c.indexOf(line.ProductID); idx >= 0 {
			if !fits(c.lines[idx].Quantity, line.Quantity) {
				return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidLine, i, ErrInvalidQuantity)
			}
			c.lines[idx].Quantity += line.Quantity
			continue
		}
		c.lines = append(c.lines, line)
	}

	return c, nil
}

// Add кладет товар в корзину: увеличивает количество существующей строки
// или добавляет новую строку с ценой из каталога. Количество строки не может
// превысить MaxQuantity; в этом случае корзина не меняется.
func (c *Cart) Add(product catalog.Product, quantity int) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity
	}

	if idx := c.indexOf(product.ID); idx >= 0 {
		if !fits(c.lines[idx].Quantity, quantity) {
			return ErrInvalidQuantity
		}
		c.lines[idx].Quantity += quantity
		return nil
	}

	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Brand:     product.Brand,
		Category:  product.Category,
		Price:     product.Price,
		Quantity:  quantity,
	})
	return nil
}

// Lines возвращает копию строк корзины.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len возвращает количество строк.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty сообщает, пуста ли корзина.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clone возвращает независимую копию корзины.
func (c *Cart) Clone() *Cart {
	return &Cart{lines: c.Lines()}
}

// Subtotal возвращает сумму price × quantity по всем строкам.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

func (c *Cart) indexOf(productID string) int {
	for i, line := range c.lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func validQuantity(quantity int) bool {
	return quantity >= 1 && quantity <= MaxQuantity
}

func fits(current, extra int) bool {
	return extra <= MaxQuantity-current
}
