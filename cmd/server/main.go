package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sharedspaces/ledger/internal/api"
	"github.com/sharedspaces/ledger/internal/cache"
	"github.com/sharedspaces/ledger/internal/service"
	"github.com/sharedspaces/ledger/internal/storage/sqlite"
	"github.com/sharedspaces/ledger/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// A .env file is optional; env vars win either way.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/ledger.db")
	port := getEnv("PORT", "8080")
	redisAddr := os.Getenv("REDIS_ADDR")

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	var balanceCache cache.Cache
	if redisAddr != "" {
		balanceCache = cache.NewRedisCache(cache.Config{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		slog.Info("Balance cache backed by redis", "addr", redisAddr)
	} else {
		balanceCache = cache.NewInMemoryCache(30 * time.Second)
	}

	svc := service.NewLedgerService(store, balanceCache)
	svc.Subscribe(func(listID string) {
		slog.Debug("List changed", "list_id", listID)
	})

	router := api.NewRouter(svc)

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Ledger server starting", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
