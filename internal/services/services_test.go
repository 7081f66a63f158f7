package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"orders-bff/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestClient(orderURL, productURL string) *ServiceClient {
	c := NewServiceClient(orderURL, productURL)
	c.retryDelay = time.Millisecond
	return c
}

func TestOrdersByUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/order-details", r.URL.Path)
		require.Equal(t, "u 1", r.URL.Query().Get("userId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"ord-1","userId":"u 1","productId":"p-1","quantity":2,"totalPrice":100000}]`))
	}))
	defer srv.Close()

	lines, err := newTestClient(srv.URL, "").OrdersByUser(context.Background(), "u 1")

	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "p-1", lines[0].ProductID)
	require.True(t, decimal.NewFromInt(100000).Equal(lines[0].TotalPrice))
}

func TestOrdersByUserNullBodyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	lines, err := newTestClient(srv.URL, "").OrdersByUser(context.Background(), "u-2")

	require.NoError(t, err)
	require.NotNil(t, lines)
	require.Empty(t, lines)
}

func TestOrdersByUserRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").OrdersByUser(context.Background(), "u-1")

	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestOrdersByUserDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").OrdersByUser(context.Background(), "u-1")

	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestProductsByIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		require.Equal(t, []string{"p-1", "p-404"}, ids)
		_ = json.NewEncoder(w).Encode([]models.Product{{ID: "p-1", Name: "Phone", ImageURI: "https://img/p-1.png"}})
	}))
	defer srv.Close()

	got, err := newTestClient("", srv.URL).ProductsByIDs(context.Background(), []string{"p-1", "p-404"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Phone", got["p-1"].Name)
}

func TestProductsByIDsEmptySkipsRequest(t *testing.T) {
	got, err := newTestClient("", "http://127.0.0.1:1").ProductsByIDs(context.Background(), nil)

	require.NoError(t, err)
	require.Empty(t, got)
}

func TestProductsByIDsOpensBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	c.attempts = 1
	for i := 0; i < 3; i++ {
		_, err := c.ProductsByIDs(context.Background(), []string{"p-1"})
		require.Error(t, err)
	}
	_, err := c.ProductsByIDs(context.Background(), []string{"p-1"})

	require.ErrorContains(t, err, "circuit breaker is open")
	require.Equal(t, int32(3), calls.Load())
}

func TestProductsByIDsClientErrorsKeepBreakerClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	for i := 0; i < 5; i++ {
		_, err := c.ProductsByIDs(context.Background(), []string{"p-1"})
		require.ErrorContains(t, err, "bad status code: 400")
	}
}

func TestProductsByIDsCallerTimeoutsKeepBreakerClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
		_ = json.NewEncoder(w).Encode([]models.Product{{ID: "p-1", Name: "Phone"}})
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := c.ProductsByIDs(ctx, []string{"p-1"})
		cancel()
		require.Error(t, err)
	}

	got, err := c.ProductsByIDs(context.Background(), []string{"p-1"})

	require.NoError(t, err)
	require.Equal(t, "Phone", got["p-1"].Name)
}
