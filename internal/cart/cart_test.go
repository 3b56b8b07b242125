package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"example.com/ai-shopping-assistant/backend/internal/catalog"
)

func mustMatch(t *testing.T, query string) catalog.Product {
	t.Helper()
	product, ok := catalog.Default().Match(query)
	if !ok {
		t.Fatalf("expected %q in catalog", query)
	}
	return product
}

// TestAddMergesDuplicates проверяет суммирование количества для одного товара.
func TestAddMergesDuplicates(t *testing.T) {
	c := New()
	milk := mustMatch(t, "milk")
	bread := mustMatch(t, "bread")

	for _, step := range []struct {
		product catalog.Product
		qty     int
	}{{milk, 2}, {bread, 1}, {milk, 2}, {bread, 1}} {
		if err := c.Add(step.product, step.qty); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ProductID != "milk-gal-whole" || lines[0].Quantity != 4 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].ProductID != "bread-white" || lines[1].Quantity != 2 {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
}

// TestAddRejectsNonPositiveQuantity проверяет инвариант количества.
func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	if err := c.Add(mustMatch(t, "shampoo"), 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if !c.IsEmpty() {
		t.Fatal("expected cart to stay empty")
	}
}

// TestAddSnapshotsPrice проверяет, что цена фиксируется в момент добавления.
func TestAddSnapshotsPrice(t *testing.T) {
	product := mustMatch(t, "rice")
	c := New()
	if err := c.Add(product, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	product.Price = decimal.NewFromInt(999)
	if err := c.Add(product, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := c.Lines()[0].Price; !got.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("expected snapshot price 12, got %s", got)
	}
}

// TestFromLinesMergesAndValidates проверяет разбор корзины клиента.
func TestFromLinesMergesAndValidates(t *testing.T) {
	c, err := FromLines([]Line{
		{ProductID: "soda-coke", Price: decimal.NewFromInt(7), Quantity: 1},
		{ProductID: "eggs-dozen", Price: decimal.NewFromInt(5), Quantity: 1},
		{ProductID: "soda-coke", Price: decimal.NewFromInt(8), Quantity: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := c.Lines()
	if len(lines) != 2 || lines[0].Quantity != 3 || !lines[0].Price.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("unexpected lines: %+v", lines)
	}

	if _, err := FromLines([]Line{{ProductID: "x", Quantity: 0}}); !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("expected ErrInvalidLine for zero quantity, got %v", err)
	}
	if _, err := FromLines([]Line{{ProductID: " ", Quantity: 1}}); !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("expected ErrInvalidLine for missing id, got %v", err)
	}
	if _, err := FromLines([]Line{{ProductID: "x", Quantity: 1, Price: decimal.NewFromInt(-1)}}); !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("expected ErrInvalidLine for negative price, got %v", err)
	}
}

// TestSubtotalAndClone проверяет подытог и независимость копии.
func TestSubtotalAndClone(t *testing.T) {
	c := New()
	_ = c.Add(mustMatch(t, "milk"), 2)
	_ = c.Add(mustMatch(t, "bread"), 1)

	if got := c.Subtotal(); !got.Equal(decimal.RequireFromString("11.80")) {
		t.Fatalf("expected subtotal 11.80, got %s", got)
	}

	clone := c.Clone()
	_ = clone.Add(mustMatch(t, "milk"), 1)
	if c.Lines()[0].Quantity != 2 {
		t.Fatal("expected original cart to be unchanged")
	}
	if New().Subtotal().Sign() != 0 {
		t.Fatal("expected zero subtotal for empty cart")
	}
}

// TestAddRejectsQuantityOverflow проверяет, что сумма количеств не выходит за предел.
func TestAddRejectsQuantityOverflow(t *testing.T) {
	milk := mustMatch(t, "milk")

	c, err := FromLines([]Line{{ProductID: milk.ID, Name: milk.Name, Price: milk.Price, Quantity: MaxQuantity}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.Add(milk, 1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if got := c.Lines()[0].Quantity; got != MaxQuantity {
		t.Fatalf("expected quantity to stay %d, got %d", MaxQuantity, got)
	}
	if !c.Subtotal().IsPositive() {
		t.Fatalf("expected positive subtotal, got %s", c.Subtotal())
	}

	if err := New().Add(milk, MaxQuantity+1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for oversized add, got %v", err)
	}
}

// TestFromLinesRejectsHugeQuantities проверяет предел количества для строк клиента.
func TestFromLinesRejectsHugeQuantities(t *testing.T) {
	price := decimal.RequireFromString("4.50")
	maxInt := int(^uint(0) >> 1)

	if _, err := FromLines([]Line{{ProductID: "milk-gal-whole", Price: price, Quantity: maxInt}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for max int, got %v", err)
	}

	duplicates := []Line{
		{ProductID: "milk-gal-whole", Price: price, Quantity: MaxQuantity},
		{ProductID: "milk-gal-whole", Price: price, Quantity: 1},
	}
	if _, err := FromLines(duplicates); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for merged overflow, got %v", err)
	}

	merged, err := FromLines([]Line{
		{ProductID: "milk-gal-whole", Price: price, Quantity: MaxQuantity - 1},
		{ProductID: "milk-gal-whole", Price: price, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error at the limit: %v", err)
	}
	if merged.Lines()[0].Quantity != MaxQuantity {
		t.Fatalf("expected %d, got %d", MaxQuantity, merged.Lines()[0].Quantity)
	}
}
