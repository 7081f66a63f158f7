// Package store defines the read contracts for order lines and the product
// catalog, plus a redis read-through cache for the catalog.
package store

import (
	"context"

	"orders-bff/internal/models"
)

// OrderReader lists every order line owned by a user. No ordering or
// paging is applied; the backend decides the order.
type OrderReader interface {
	OrdersByUser(ctx context.Context, userID string) ([]models.OrderLine, error)
}

// ProductReader looks up products by id. Ids that do not resolve are absent
// from the result; that is not an error.
type ProductReader interface {
	ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
}
