package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"orders-bff/internal/fixtures"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	port := "8083"
	if v, ok := os.LookupEnv("PRODUCT_SERVICE_PORT"); ok {
		port = v
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		var ids []string
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}

		products := fixtures.ProductsByIDs(ids)
		slog.Info("Products requested", "requested", len(ids), "found", len(products))

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(products); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

	})
	slog.Info("Product service listening", "port", port)

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
}
