package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string
	APP_URL     string

	LOG_LEVEL      string
	LOG_FILE       string
	GORM_LOG_LEVEL string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	AMQP_URL         string
	ANALYTICS_BUFFER int

	STRIPE_SECRET_KEY        string
	STRIPE_WEBHOOK_SECRET    string
	STRIPE_PRICE_PLUS        string
	STRIPE_PRICE_PLUS_YEARLY string

	Redis     RedisConfig
	RateLimit RateLimitConfig
	PageCache PageCacheConfig
)

// RedisConfig locates the redis server shared by rate limiting and the page
// cache. REDIS_HOST and REDIS_PORT together win over REDIS_ADDR.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// RateLimitConfig drives the redis token bucket in front of the public
// analytics endpoints.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// PageCacheConfig drives the redis cache of rendered public pages.
type PageCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")
	APP_URL = getEnv("APP_URL", "http://localhost:3000")

	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FILE = getEnv("LOG_FILE", "")
	GORM_LOG_LEVEL = getEnv("GORM_LOG_LEVEL", "warn")

	// Google sign-in is optional; routes are only mounted when the client id is set.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	AMQP_URL = getEnv("AMQP_URL", "")
	ANALYTICS_BUFFER = envInt("ANALYTICS_BUFFER", 1024)

	STRIPE_SECRET_KEY = getEnv("STRIPE_SECRET_KEY", "")
	STRIPE_WEBHOOK_SECRET = getEnv("STRIPE_WEBHOOK_SECRET", "")
	STRIPE_PRICE_PLUS = getEnv("STRIPE_PRICE_PLUS", "")
	STRIPE_PRICE_PLUS_YEARLY = getEnv("STRIPE_PRICE_PLUS_YEARLY", "")

	Redis = LoadRedisConfig()
	RateLimit = LoadRateLimitConfig()
	PageCache = LoadPageCacheConfig()
}

func LoadRedisConfig() RedisConfig {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	return RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
		TLS:      envBool("REDIS_TLS", false),
	}
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         getEnv("RATE_LIMIT_PREFIX", "pulse:rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

func LoadPageCacheConfig() PageCacheConfig {
	cfg := PageCacheConfig{
		Enabled: envBool("PAGE_CACHE_ENABLED", true),
		TTL:     envDur("PAGE_CACHE_TTL", 5*time.Minute),
		Prefix:  getEnv("PAGE_CACHE_PREFIX", "pulse:page"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return cfg
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return n
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil {
		return d
	}
	return fallback
}
