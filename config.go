package main

import (
	"os"
	"strconv"
	"time"
)

type config struct {
	Port          string
	PublicBaseURL string

	BokunBaseURL   string
	BokunAccessKey string
	BokunSecretKey string
	BokunTimeout   time.Duration
	ProductListID  string

	PhonePrefix     string
	ResubmitAnswers bool
	PaymentTestMode bool

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	DatabaseURL string

	SessionHashKey  string
	SessionBlockKey string
}

// loadConfig reads the environment once at startup; credentials stay in memory only
func loadConfig() config {
	return config{
		Port:          getEnv("PORT", "8080"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		BokunBaseURL:   getEnv("BOKUN_BASE_URL", "https://api.bokun.io"),
		BokunAccessKey: getEnv("BOKUN_ACCESS_KEY", ""),
		BokunSecretKey: getEnv("BOKUN_SECRET_KEY", ""),
		BokunTimeout:   getDurationEnv("BOKUN_TIMEOUT", 10*time.Second),
		ProductListID:  getEnv("BOKUN_PRODUCT_LIST_ID", "16220"),

		PhonePrefix:     getEnv("DEFAULT_PHONE_PREFIX", "+48"),
		ResubmitAnswers: getBoolEnv("CHECKOUT_RESUBMIT_ANSWERS", false),
		PaymentTestMode: getBoolEnv("PAYMENT_TEST_MODE", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getDurationEnv("CATALOG_CACHE_TTL", 5*time.Minute),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		SessionHashKey:  getEnv("SESSION_HASH_KEY", ""),
		SessionBlockKey: getEnv("SESSION_BLOCK_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
