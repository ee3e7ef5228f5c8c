package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT (shared across all apps)
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// OpenAI
	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string
	AITimeout    time.Duration

	// Rate limiting
	ReportLimitPerHour    int
	RequestLimitPerMinute int

	// Admin
	AdminKey string

	// Server
	Environment string
	Port        string
	CORSOrigins string

	// App registry
	AppsConfigPath string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "coaching_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIURL: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),

		AITimeout: parseDuration(getEnv("AI_TIMEOUT", "60s")),

		ReportLimitPerHour:    getEnvInt("REPORT_RATE_LIMIT_PER_HOUR", 10),
		RequestLimitPerMinute: getEnvInt("GENERAL_RATE_LIMIT_PER_MINUTE", 60),

		AdminKey: getEnv("ADMIN_KEY", ""),

		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		AppsConfigPath: getEnv("APPS_CONFIG_PATH", "apps.json"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate returns the list of configuration errors that must block startup.
// Missing keys degrade silently at request time otherwise, which is far worse.
func (c *Config) Validate() []string {
	var errors []string

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}

	if c.IsProduction() {
		if c.OpenAIAPIKey == "" {
			errors = append(errors, "OPENAI_API_KEY is required in production")
		} else if !strings.HasPrefix(c.OpenAIAPIKey, "sk-") {
			errors = append(errors, "OPENAI_API_KEY appears invalid (should start with 'sk-')")
		}
		if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
			errors = append(errors, "DB_HOST should not use localhost in production")
		}
		if c.DBPassword == "" {
			errors = append(errors, "DB_PASSWORD is required in production")
		}
	}

	return errors
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
