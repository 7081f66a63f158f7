package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendHTTP  = "http"
	BackendMongo = "mongo"
)

type Config struct {
	HTTPPort  string
	RedisAddr string
	JWTSecret string

	Backend           string
	MongoURI          string
	MongoDatabase     string
	OrderCollection   string
	ProductCollection string
	OrderServiceURL   string
	ProductServiceURL string

	LookupBatchSize   int
	LookupConcurrency int
	ProductCacheTTL   time.Duration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	FetchTimeout      time.Duration

	GatewayURL string
}

// NewConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func NewConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	return &Config{
		HTTPPort:  getEnv("HTTP_PORT", "8080"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),

		Backend:           getEnv("ORDER_BACKEND", BackendHTTP),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "shop"),
		OrderCollection:   getEnv("ORDER_COLLECTION", "order_detail"),
		ProductCollection: getEnv("PRODUCT_COLLECTION", "products"),
		OrderServiceURL:   getEnv("ORDER_SERVICE_URL", "http://localhost:8082"),
		ProductServiceURL: getEnv("PRODUCT_SERVICE_URL", "http://localhost:8083"),

		LookupBatchSize:   getEnvInt("LOOKUP_BATCH_SIZE", 30),
		LookupConcurrency: getEnvInt("LOOKUP_CONCURRENCY", 4),
		ProductCacheTTL:   getEnvDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		FetchTimeout:      getEnvDuration("FETCH_TIMEOUT", 10*time.Second),

		GatewayURL: getEnv("GATEWAY_URL", "http://localhost:8080"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return d
}
