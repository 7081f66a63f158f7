// Package client fetches the order-history screen state from the gateway.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"orders-bff/internal/telemetry"
	"orders-bff/internal/view"

	"github.com/google/uuid"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// OrderHistory always returns a renderable state. The error is non-nil when
// the gateway could not be reached or answered with something unexpected;
// the state is then the generic failure.
func (c *Client) OrderHistory(ctx context.Context) (view.State, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/orders", nil)
	if err != nil {
		return view.FetchFailed(), err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(telemetry.RequestIDHeader, uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return view.FetchFailed(), err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return view.FetchFailed(), err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusUnauthorized, http.StatusBadGateway:
		var state view.State
		if err := json.Unmarshal(body, &state); err == nil && state.Phase != "" {
			return state, nil
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return view.NotSignedIn(), nil
		}
	}

	return view.FetchFailed(), fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
