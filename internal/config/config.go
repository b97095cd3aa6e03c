package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseDriver string
	DatabaseURL    string

	RedisURL string

	ScanHour       int
	PurgeDay       int
	PurgeHour      int
	RetentionDays  int
	HorizonDays    int
	ServiceDueDays int
	Timezone       string
	StoreTimeout   time.Duration

	AlertLocale       string
	AlertTemplatePath string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	CORSOrigins string

	ResendAPIKey    string
	FromEmail       string
	AlertRecipients []string
}

func Load() *Config {
	driver := getEnv("DATABASE_DRIVER", "postgres")
	defaultDSN := ""
	if driver == "sqlite" {
		defaultDSN = "vertitrack.db"
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseDriver: driver,
		DatabaseURL:    getEnv("DATABASE_URL", defaultDSN),

		RedisURL: getEnv("REDIS_URL", ""),

		ScanHour:       getIntEnv("SCAN_HOUR", 9),
		PurgeDay:       getIntEnv("PURGE_DAY", 1),
		PurgeHour:      getIntEnv("PURGE_HOUR", 2),
		RetentionDays:  getIntEnv("RETENTION_DAYS", 90),
		HorizonDays:    getIntEnv("HORIZON_DAYS", 30),
		ServiceDueDays: getIntEnv("SERVICE_DUE_DAYS", 15),
		Timezone:       getEnv("TIMEZONE", "Local"),
		StoreTimeout:   getDurationEnv("STORE_TIMEOUT", 10*time.Second),

		AlertLocale:       getEnv("ALERT_LOCALE", "en"),
		AlertTemplatePath: getEnv("ALERT_TEMPLATE_PATH", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "vertitrack-archive"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		FromEmail:       getEnv("FROM_EMAIL", "noreply@example.com"),
		AlertRecipients: getListEnv("ALERT_RECIPIENTS"),
	}
}

// Location resolves Timezone, falling back to the process local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
