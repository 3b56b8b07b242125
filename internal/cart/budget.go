package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Totals are the computed figures for a cart after offers.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	Offers   OfferResult
}

// Price считает подытог, скидку и итог. Итог не бывает отрицательным.
func Price(c *Cart, offers *Offers) Totals {
	subtotal := c.Subtotal()
	result := offers.Evaluate(c)

	total := subtotal.Sub(result.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Discount: result.Discount,
		Total:    total,
		Offers:   result,
	}
}

// BudgetStatus is advisory only; exceeding the budget never blocks checkout.
type BudgetStatus struct {
	Exceeded bool
	Overage  decimal.Decimal
	Message  string
}

// EvaluateBudget сравнивает итог с бюджетом. Нулевой бюджет означает "не задан".
func EvaluateBudget(total, budget decimal.Decimal) BudgetStatus {
	if !budget.IsPositive() || !total.GreaterThan(budget) {
		return BudgetStatus{Overage: decimal.Zero}
	}

	overage := total.Sub(budget)
	return BudgetStatus{
		Exceeded: true,
		Overage:  overage,
		Message: fmt.Sprintf("Your current total of %s exceeds your budget of %s by %s. ",
			FormatAmount(total), FormatAmount(budget), FormatAmount(overage)),
	}
}
