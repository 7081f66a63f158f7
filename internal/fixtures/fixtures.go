// Package fixtures holds the demo catalog and order lines served by the
// demo order and product services.
package fixtures

import (
	"orders-bff/internal/models"

	"github.com/shopspring/decimal"
)

func Products() []models.Product {
	return []models.Product{
		{ID: "p-1", Name: "Điện thoại XPhone 12", ImageURI: "https://cdn.example.com/products/p-1.jpg"},
		{ID: "p-2", Name: "Tai nghe không dây", ImageURI: "https://cdn.example.com/products/p-2.jpg"},
		{ID: "p-3", Name: "Sạc nhanh 65W", ImageURI: "https://cdn.example.com/products/p-3.jpg"},
	}
}

// OrderLines gives u-1 one line for an existing product and one for a
// product that was removed from the catalog; u-2 has no orders.
func OrderLines() []models.OrderLine {
	return []models.OrderLine{
		{ID: "od-1", UserID: "u-1", ProductID: "p-1", Quantity: 2, TotalPrice: decimal.NewFromInt(100000)},
		{ID: "od-2", UserID: "u-1", ProductID: "p-404", Quantity: 1, TotalPrice: decimal.NewFromInt(250000)},
		{ID: "od-3", UserID: "u-3", ProductID: "p-2", Quantity: 1, TotalPrice: decimal.NewFromInt(450000)},
		{ID: "od-4", UserID: "u-3", ProductID: "p-3", Quantity: 3, TotalPrice: decimal.NewFromInt(360000)},
	}
}

func OrderLinesByUser(userID string) []models.OrderLine {
	out := []models.OrderLine{}
	for _, line := range OrderLines() {
		if line.UserID == userID {
			out = append(out, line)
		}
	}
	return out
}

func ProductsByIDs(ids []string) []models.Product {
	byID := map[string]models.Product{}
	for _, p := range Products() {
		byID[p.ID] = p
	}

	out := []models.Product{}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
