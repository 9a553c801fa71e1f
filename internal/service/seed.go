package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/restaurant_admin/internal/transport"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var sampleMenu = []transport.CreateMenuRequest{
	{Name: "Nasi Goreng Special", Description: "Fried rice with egg, chicken and prawn crackers", Price: price("25000"), Category: "Main Course"},
	{Name: "Mie Ayam Bakso", Description: "Chicken noodles with meatballs", Price: price("20000"), Category: "Main Course"},
	{Name: "Gado-Gado", Description: "Vegetable salad with peanut sauce", Price: price("18000"), Category: "Salad"},
	{Name: "Sate Ayam", Description: "Chicken satay with peanut sauce and rice cake", Price: price("30000"), Category: "Grilled"},
	{Name: "Es Teh Manis", Description: "Sweet iced tea", Price: price("8000"), Category: "Beverage"},
	{Name: "Es Jeruk", Description: "Fresh iced orange juice", Price: price("12000"), Category: "Beverage"},
	{Name: "Pisang Goreng", Description: "Fried banana", Price: price("15000"), Category: "Dessert"},
}

// SeedSampleMenu fills an empty catalog and leaves a populated one alone.
func (s *MenuService) SeedSampleMenu(ctx context.Context) (int, error) {
	n, err := s.Repo.CountMenus(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	created := 0
	for _, req := range sampleMenu {
		if _, err := s.CreateMenu(ctx, req); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
