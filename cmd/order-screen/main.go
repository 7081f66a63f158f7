package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"orders-bff/internal/auth"
	"orders-bff/internal/client"
	"orders-bff/internal/config"
	"orders-bff/internal/screen"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := config.NewConfig()

	gateway := flag.String("gateway", cfg.GatewayURL, "order gateway base URL")
	token := flag.String("token", os.Getenv("ORDER_TOKEN"), "bearer token of the signed-in user")
	user := flag.String("user", "", "mint a development token for this user id with JWT_SECRET")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if *user != "" {
		minted, err := auth.NewToken(cfg.JWTSecret, *user, time.Hour)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		*token = minted
	}

	gw := client.New(*gateway, *token)
	model := screen.New(context.Background(), gw.OrderHistory)

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if m, ok := final.(screen.Model); ok && m.Err() != nil {
		slog.Error("Error fetching order items", "error", m.Err())
	}
}
