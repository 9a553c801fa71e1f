package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
)

// CalculateTotal folds quantity * unit price over the lines. An empty set totals zero.
func CalculateTotal(lines []models.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// numeric(12,2) leaves ten integer digits.
var maxTotal = decimal.New(1, 10)

// applyTotal stores the recomputed total, refusing one the column cannot hold.
func applyTotal(order *models.Order, lines []models.OrderLine) error {
	total := CalculateTotal(lines)
	if total.GreaterThanOrEqual(maxTotal) {
		return fmt.Errorf("%w: order total %s exceeds the maximum of %s", ErrValidation, total.StringFixed(2), maxTotal.Sub(decimal.New(1, -2)).StringFixed(2))
	}
	order.Total = total
	return nil
}
