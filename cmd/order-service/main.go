package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"orders-bff/internal/fixtures"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	port := "8082"
	if v, ok := os.LookupEnv("ORDER_SERVICE_PORT"); ok {
		port = v
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /order-details", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			http.Error(w, "userId is required", http.StatusBadRequest)
			return
		}

		slog.Info("Order lines requested", "user_id", userID)

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(fixtures.OrderLinesByUser(userID)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	slog.Info("Order service listening", "port", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
}
