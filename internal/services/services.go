package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orders-bff/internal/models"
	"orders-bff/internal/resilience"
)

// ServiceClient reads order lines and products from the order and product
// HTTP services. It satisfies store.OrderReader and store.ProductReader.
type ServiceClient struct {
	orderServiceURL   string
	productServiceURL string
	client            *http.Client
	attempts          int
	retryDelay        time.Duration
	productCB         *resilience.CircuitBreaker
}

func NewServiceClient(orderServiceURL, productServiceURL string) *ServiceClient {
	return &ServiceClient{
		orderServiceURL:   strings.TrimRight(orderServiceURL, "/"),
		productServiceURL: strings.TrimRight(productServiceURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		attempts:   3,
		retryDelay: 500 * time.Millisecond,
		productCB:  resilience.NewCircuitBreaker("product-service", 3, 10*time.Second),
	}
}

func (s *ServiceClient) fetchJSON(ctx context.Context, url string, target interface{}) error {
	return resilience.Retry(ctx, s.attempts, s.retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return resilience.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: %d", resp.StatusCode)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return resilience.Permanent(fmt.Errorf("bad status code: %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resilience.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
}

func (s *ServiceClient) OrdersByUser(ctx context.Context, userID string) ([]models.OrderLine, error) {
	u := fmt.Sprintf("%s/order-details?userId=%s", s.orderServiceURL, url.QueryEscape(userID))
	var lines []models.OrderLine
	if err := s.fetchJSON(ctx, u, &lines); err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}
	if lines == nil {
		lines = []models.OrderLine{}
	}
	return lines, nil
}

func (s *ServiceClient) ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	found := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := url.Values{"ids": {strings.Join(ids, ",")}}
	u := fmt.Sprintf("%s/products?%s", s.productServiceURL, query.Encode())

	var products []models.Product
	err := s.productCB.Execute(ctx, func() error {
		return s.fetchJSON(ctx, u, &products)
	})
	if err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}

	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}
