package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	require.Equal(t, BackendHTTP, cfg.Backend)
	require.Equal(t, "order_detail", cfg.OrderCollection)
	require.Equal(t, "products", cfg.ProductCollection)
	require.Equal(t, 30, cfg.LookupBatchSize)
	require.Equal(t, 4, cfg.LookupConcurrency)
	require.Equal(t, 10*time.Second, cfg.FetchTimeout)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("ORDER_BACKEND", BackendMongo)
	t.Setenv("MONGO_DATABASE", "shop_test")
	t.Setenv("LOOKUP_BATCH_SIZE", "5")
	t.Setenv("PRODUCT_CACHE_TTL", "90s")

	cfg := NewConfig()

	require.Equal(t, BackendMongo, cfg.Backend)
	require.Equal(t, "shop_test", cfg.MongoDatabase)
	require.Equal(t, 5, cfg.LookupBatchSize)
	require.Equal(t, 90*time.Second, cfg.ProductCacheTTL)
}

func TestNewConfigInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("LOOKUP_CONCURRENCY", "many")
	t.Setenv("FETCH_TIMEOUT", "soon")

	cfg := NewConfig()

	require.Equal(t, 4, cfg.LookupConcurrency)
	require.Equal(t, 10*time.Second, cfg.FetchTimeout)
}
