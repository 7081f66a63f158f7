package store

import (
	"context"
	"encoding/json"
	"time"

	"orders-bff/internal/models"
	"orders-bff/internal/telemetry"
)

// ProductCache is the subset of cache.Client used by CachedProducts.
type ProductCache interface {
	GetMany(ctx context.Context, keys []string) ([][]byte, error)
	SetMany(ctx context.Context, entries map[string][]byte, ttl time.Duration) error
}

// CachedProducts serves catalog lookups from redis and falls through to next
// for the ids it does not hold. Only hits from next are written back.
type CachedProducts struct {
	next  ProductReader
	cache ProductCache
	ttl   time.Duration
}

func NewCachedProducts(next ProductReader, cache ProductCache, ttl time.Duration) *CachedProducts {
	return &CachedProducts{next: next, cache: cache, ttl: ttl}
}

func productKey(id string) string {
	return "product:" + id
}

func (c *CachedProducts) ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	found := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	logger := telemetry.Logger(ctx)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	missing := ids
	cached, err := c.cache.GetMany(ctx, keys)
	if err != nil {
		logger.Warn("Product cache read failed", "error", err)
	} else {
		missing = make([]string, 0, len(ids))
		for i, id := range ids {
			if i >= len(cached) || cached[i] == nil {
				missing = append(missing, id)
				continue
			}
			var p models.Product
			if err := json.Unmarshal(cached[i], &p); err != nil {
				logger.Warn("Corrupt product cache entry", "product_id", id, "error", err)
				missing = append(missing, id)
				continue
			}
			found[id] = p
		}
	}

	if len(missing) == 0 {
		return found, nil
	}

	fetched, err := c.next.ProductsByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	entries := make(map[string][]byte, len(fetched))
	for id, p := range fetched {
		found[id] = p
		data, err := json.Marshal(p)
		if err != nil {
			continue
		}
		entries[productKey(id)] = data
	}

	if err := c.cache.SetMany(ctx, entries, c.ttl); err != nil {
		logger.Warn("Product cache write failed", "error", err)
	}

	return found, nil
}
