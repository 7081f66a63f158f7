package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"orders-bff/internal/models"
	"orders-bff/internal/orders"
	"orders-bff/internal/session"
	"orders-bff/internal/telemetry"
	"orders-bff/internal/view"
)

// OrderFetcher is implemented by orders.Fetcher.
type OrderFetcher interface {
	Fetch(ctx context.Context, userID string) ([]models.OrderRow, error)
}

// RateLimiter is implemented by cache.Client.
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string) bool
}

type Handler struct {
	fetcher      OrderFetcher
	limiter      RateLimiter
	sessions     session.Provider
	fetchTimeout time.Duration
}

func NewHandler(fetcher OrderFetcher, limiter RateLimiter, sessions session.Provider, fetchTimeout time.Duration) *Handler {
	return &Handler{
		fetcher:      fetcher,
		limiter:      limiter,
		sessions:     sessions,
		fetchTimeout: fetchTimeout,
	}
}

// GetOrderHistory answers with the screen state for the signed-in user.
// The fetch is tied to the request context, so a client that goes away
// cancels the in-flight lookups.
func (h *Handler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := telemetry.Logger(ctx)

	clientIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(clientIP); err == nil {
		clientIP = host
	}

	if h.limiter != nil && h.limiter.IsRateLimited(ctx, clientIP) {
		logger.Warn("Rate limit exceeded", "ip", clientIP)
		telemetry.OrderHistoryFetches.WithLabelValues(telemetry.OutcomeRateLimited).Inc()
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
		return
	}

	userID, ok := h.sessions.CurrentUserID(ctx)
	if !ok {
		logger.Info("Order history requested without a session")
		telemetry.OrderHistoryFetches.WithLabelValues(telemetry.OutcomeNotSignedIn).Inc()
		writeJSON(w, http.StatusUnauthorized, view.NotSignedIn())
		return
	}

	if h.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := h.fetcher.Fetch(ctx, userID)
	state := view.Resolve(rows, err)

	switch {
	case errors.Is(err, orders.ErrNotSignedIn):
		telemetry.OrderHistoryFetches.WithLabelValues(telemetry.OutcomeNotSignedIn).Inc()
		writeJSON(w, http.StatusUnauthorized, state)
		return
	case err != nil:
		logger.Error("Error fetching order items", "user_id", userID, "error", err, "duration", time.Since(start))
		telemetry.OrderHistoryFetches.WithLabelValues(telemetry.OutcomeFailed).Inc()
		writeJSON(w, http.StatusBadGateway, state)
		return
	}

	outcome := telemetry.OutcomeLoaded
	if state.Phase == view.PhaseEmpty {
		outcome = telemetry.OutcomeEmpty
	}
	telemetry.OrderHistoryFetches.WithLabelValues(outcome).Inc()

	logger.Info("Request processed", "user_id", userID, "rows", len(state.Rows), "duration", time.Since(start))
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	responseBytes, err := json.Marshal(body)
	if err != nil {
		slog.Error("JSON marshal error", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(responseBytes)
}
