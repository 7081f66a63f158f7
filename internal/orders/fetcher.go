// Package orders builds a user's order history: it lists the user's order
// lines and joins them with the product catalog.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orders-bff/internal/models"
	"orders-bff/internal/store"
	"orders-bff/internal/telemetry"

	"golang.org/x/sync/errgroup"
)

// ErrNotSignedIn is returned when no user id is available. No store is
// queried in that case.
var ErrNotSignedIn = errors.New("orders: not signed in")

const (
	DefaultBatchSize   = 30
	DefaultConcurrency = 4
)

type Fetcher struct {
	orders      store.OrderReader
	products    store.ProductReader
	batchSize   int
	concurrency int
}

type Option func(*Fetcher)

// WithBatchSize caps how many product ids go into one catalog lookup.
func WithBatchSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.batchSize = n
		}
	}
}

// WithConcurrency caps how many catalog lookups run at once.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

func NewFetcher(orders store.OrderReader, products store.ProductReader, opts ...Option) *Fetcher {
	f := &Fetcher{
		orders:      orders,
		products:    products,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the user's order lines joined with their products, in the
// order the order store returned them. Lines whose product cannot be found
// are logged and left out. Any other failure aborts the fetch and no rows
// are returned.
func (f *Fetcher) Fetch(ctx context.Context, userID string) ([]models.OrderRow, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNotSignedIn
	}

	lines, err := f.orders.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	if len(lines) == 0 {
		return []models.OrderRow{}, nil
	}

	products, err := f.lookupProducts(ctx, distinctProductIDs(lines))
	if err != nil {
		return nil, fmt.Errorf("look up products: %w", err)
	}

	logger := telemetry.Logger(ctx)
	rows := make([]models.OrderRow, 0, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			logger.Warn("Product not found, dropping order line",
				"user_id", userID, "order_id", line.ID, "product_id", line.ProductID)
			telemetry.DanglingProductRefs.Inc()
			continue
		}
		rows = append(rows, models.NewOrderRow(line, product))
	}
	return rows, nil
}

func (f *Fetcher) lookupProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	batches := chunk(ids, f.batchSize)
	results := make([]map[string]models.Product, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			telemetry.ProductLookupBatchSize.Observe(float64(len(batch)))
			found, err := f.products.ProductsByIDs(gctx, batch)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]models.Product, len(ids))
	for _, found := range results {
		for id, p := range found {
			merged[id] = p
		}
	}
	return merged, nil
}

// distinctProductIDs keeps the first-appearance order of product ids.
func distinctProductIDs(lines []models.OrderLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

func chunk(ids []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}
