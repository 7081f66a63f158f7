package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"orders-bff/internal/models"
	"orders-bff/internal/telemetry"

	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	data     map[string][]byte
	getErr   error
	setErr   error
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetMany(_ context.Context, keys []string) ([][]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = f.data[k]
	}
	return out, nil
}

func (f *fakeCache) SetMany(_ context.Context, entries map[string][]byte, _ time.Duration) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	for k, v := range entries {
		f.data[k] = v
	}
	return nil
}

type fakeCatalog struct {
	products map[string]models.Product
	err      error
	asked    [][]string
}

func (f *fakeCatalog) ProductsByIDs(_ context.Context, ids []string) (map[string]models.Product, error) {
	f.asked = append(f.asked, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]models.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

var (
	phone  = models.Product{ID: "p-1", Name: "Phone", ImageURI: "https://img/p-1.png"}
	charge = models.Product{ID: "p-2", Name: "Charger", ImageURI: "https://img/p-2.png"}
)

func TestCachedProductsReadThrough(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{"p-1": phone, "p-2": charge}}
	cache := newFakeCache()
	cached := NewCachedProducts(catalog, cache, time.Minute)

	got, err := cached.ProductsByIDs(context.Background(), []string{"p-1", "p-2", "p-404"})
	require.NoError(t, err)
	require.Equal(t, map[string]models.Product{"p-1": phone, "p-2": charge}, got)
	require.Contains(t, cache.data, "product:p-1")
	require.NotContains(t, cache.data, "product:p-404", "misses are not cached")

	got, err = cached.ProductsByIDs(context.Background(), []string{"p-1", "p-404"})
	require.NoError(t, err)
	require.Equal(t, map[string]models.Product{"p-1": phone}, got)

	require.Len(t, catalog.asked, 2)
	require.Equal(t, []string{"p-404"}, catalog.asked[1])
}

func TestCachedProductsAllHitsSkipBackend(t *testing.T) {
	catalog := &fakeCatalog{}
	cache := newFakeCache()
	data, err := json.Marshal(phone)
	require.NoError(t, err)
	cache.data["product:p-1"] = data

	got, err := NewCachedProducts(catalog, cache, time.Minute).ProductsByIDs(context.Background(), []string{"p-1"})

	require.NoError(t, err)
	require.Equal(t, phone, got["p-1"])
	require.Empty(t, catalog.asked)
	require.Zero(t, cache.setCalls)
}

func TestCachedProductsDegradesOnCacheErrors(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{"p-1": phone, "p-2": charge}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	cache.data["product:p-2"] = []byte("{not json")

	got, err := NewCachedProducts(catalog, cache, time.Minute).ProductsByIDs(context.Background(), []string{"p-1", "p-2"})

	require.NoError(t, err)
	require.Len(t, got, 2)
	asked := catalog.asked[0]
	sort.Strings(asked)
	require.Equal(t, []string{"p-1", "p-2"}, asked)
}

func TestCachedProductsCorruptEntryRefetched(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{"p-2": charge}}
	cache := newFakeCache()
	cache.data["product:p-2"] = []byte("{not json")

	got, err := NewCachedProducts(catalog, cache, time.Minute).ProductsByIDs(context.Background(), []string{"p-2"})

	require.NoError(t, err)
	require.Equal(t, charge, got["p-2"])
	require.Equal(t, [][]string{{"p-2"}}, catalog.asked)
}

func TestCachedProductsBackendError(t *testing.T) {
	boom := errors.New("catalog unavailable")
	catalog := &fakeCatalog{err: boom}

	_, err := NewCachedProducts(catalog, newFakeCache(), time.Minute).ProductsByIDs(context.Background(), []string{"p-1"})

	require.ErrorIs(t, err, boom)
}

func TestCachedProductsEmptyInput(t *testing.T) {
	catalog := &fakeCatalog{}
	got, err := NewCachedProducts(catalog, newFakeCache(), time.Minute).ProductsByIDs(context.Background(), nil)

	require.NoError(t, err)
	require.Empty(t, got)
	require.Empty(t, catalog.asked)
}

func TestCachedProductsWarningsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	catalog := &fakeCatalog{products: map[string]models.Product{"p-1": phone}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	ctx := telemetry.WithRequestID(context.Background(), "req-42")

	_, err := NewCachedProducts(catalog, cache, time.Minute).ProductsByIDs(ctx, []string{"p-1"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		require.Equal(t, "WARN", entry["level"])
		require.Equal(t, "req-42", entry["request_id"])
	}
}
