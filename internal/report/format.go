package report

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
)

// formatMoney renders "Rp 24,000"; cents appear only when present.
func formatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	s := "Rp " + sign + humanize.Comma(whole.IntPart())
	if frac := d.Sub(whole); !frac.IsZero() {
		s += frac.StringFixed(2)[1:]
	}
	return s
}

func statusTitle(s models.OrderStatus) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func itemsSummary(lines []models.OrderLine) string {
	if len(lines) == 0 {
		return "No items"
	}
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		name := l.MenuName()
		if name == "" {
			name = "Unknown item"
		}
		parts = append(parts, name+" (x"+humanize.Comma(int64(l.Quantity))+")")
	}
	return strings.Join(parts, "\n")
}

type summary struct {
	Orders   int
	Revenue  decimal.Decimal
	ByStatus map[models.OrderStatus]int
}

func summarize(orders []models.Order) summary {
	s := summary{Revenue: decimal.Zero, ByStatus: map[models.OrderStatus]int{}}
	for _, o := range orders {
		s.Orders++
		s.Revenue = s.Revenue.Add(o.Total)
		s.ByStatus[o.Status]++
	}
	return s
}
