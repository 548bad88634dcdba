package config

import (
	"os"
	"strconv"
)

type Config struct {
	DatabaseSource  string // SQLite file path or MySQL DSN
	Port            string
	Environment     string
	AlertWebhookURL string // empty disables anomaly alerts

	// Defaults for reseeding the sample data set
	SeedDays  int
	SeedSKUs  int
	SeedValue int64
}

func Load() *Config {
	return &Config{
		DatabaseSource:  getEnv("DATABASE_SOURCE", "sku_metrics.db"),
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		AlertWebhookURL: getEnv("ALERT_WEBHOOK_URL", ""),

		SeedDays:  getEnvInt("SEED_DAYS", 90),
		SeedSKUs:  getEnvInt("SEED_SKUS", 120),
		SeedValue: int64(getEnvInt("SEED_VALUE", 42)),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
