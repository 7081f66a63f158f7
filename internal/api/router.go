package api

import (
	"net/http"

	"orders-bff/internal/auth"
	"orders-bff/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler, authMiddleware *auth.Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", h.Healthz)

	protectedHandler := authMiddleware.ValidateToken(h.GetOrderHistory)
	mux.HandleFunc("GET /api/orders", telemetry.Middleware(protectedHandler))

	return telemetry.RequestID(mux)
}
