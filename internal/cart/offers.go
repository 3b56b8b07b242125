package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Snapshot is the view of a cart that offer rules are evaluated against.
type Snapshot struct {
	Cart     *Cart
	Subtotal decimal.Decimal
}

// Rule pairs a predicate with the discount it grants. Rules are independent;
// their discounts are summed in declaration order.
type Rule struct {
	Name      string
	Predicate func(Snapshot) bool
	Effect    func(Snapshot) (decimal.Decimal, string)
}

// OfferResult is the combined outcome of all rules that fired.
type OfferResult struct {
	Discount    decimal.Decimal
	Description string
	Applied     []string
}

type Offers struct {
	rules []Rule
}

// NewOffers создает набор правил скидок в заданном порядке.
func NewOffers(rules ...Rule) *Offers {
	return &Offers{rules: rules}
}

// DefaultOffers возвращает два действующих правила магазина.
func DefaultOffers() *Offers {
	return NewOffers(
		BulkSubtotalRule(decimal.NewFromInt(500), decimal.NewFromInt(10)),
		BundleRule("Great Value", "dairy", 2, decimal.NewFromInt(50)),
	)
}

// Evaluate применяет все правила к корзине и суммирует скидки.
func (o *Offers) Evaluate(c *Cart) OfferResult {
	snapshot := Snapshot{Cart: c, Subtotal: c.Subtotal()}
	result := OfferResult{Discount: decimal.Zero}

	var description strings.Builder
	for _, rule := range o.rules {
		if !rule.Predicate(snapshot) {
			continue
		}
		amount, message := rule.Effect(snapshot)
		result.Discount = result.Discount.Add(amount)
		result.Applied = append(result.Applied, rule.Name)
		description.WriteString(message)
	}
	result.Description = description.String()

	return result
}

// BulkSubtotalRule дает percent% от подытога, если он строго больше threshold.
func BulkSubtotalRule(threshold, percent decimal.Decimal) Rule {
	share := percent.Div(decimal.NewFromInt(100))
	return Rule{
		Name: "bulk_subtotal",
		Predicate: func(s Snapshot) bool {
			return s.Subtotal.GreaterThan(threshold)
		},
		Effect: func(s Snapshot) (decimal.Decimal, string) {
			amount := s.Subtotal.Mul(share)
			return amount, fmt.Sprintf("Applied %s%% off for orders over %s: -%s. ", percent.String(), FormatAmount(threshold), FormatAmount(amount))
		},
	}
}

// BundleRule дает фиксированную скидку, если в корзине не меньше minLines
// разных строк заданного бренда и категории. Количество в строках не учитывается.
func BundleRule(brand, category string, minLines int, amount decimal.Decimal) Rule {
	return Rule{
		Name: "bundle",
		Predicate: func(s Snapshot) bool {
			count := 0
			for _, line := range s.Cart.lines {
				if line.Brand == brand && line.Category == category {
					count++
				}
			}
			return count >= minLines
		},
		Effect: func(Snapshot) (decimal.Decimal, string) {
			return amount, fmt.Sprintf("Applied ₹%s off for buying %d %s milks. ", amount.String(), minLines, brand)
		},
	}
}

// FormatAmount форматирует сумму в домашней валюте для сообщений.
func FormatAmount(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}
