package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mapbox   MapboxConfig
	Cache    CacheConfig
	Reviews  ReviewsConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MapboxConfig holds map provider configuration.
//
// When SecretToken and Username are set, short-lived public tokens are minted
// through the Tokens API; otherwise PublicToken is handed out as is.
type MapboxConfig struct {
	PublicToken string
	SecretToken string
	Username    string
	BaseURL     string
	Profile     string
	TokenTTL    time.Duration
	Timeout     time.Duration
}

// CacheConfig holds cache tuning
type CacheConfig struct {
	FacilitiesTTL time.Duration
	WarmSchedule  string
}

// ReviewsConfig holds review submission limits
type ReviewsConfig struct {
	RateLimit  int
	RateWindow time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Env:            getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "health_connect"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Mapbox: MapboxConfig{
			PublicToken: getEnv("MAPBOX_PUBLIC_TOKEN", ""),
			SecretToken: getEnv("MAPBOX_SECRET_TOKEN", ""),
			Username:    getEnv("MAPBOX_USERNAME", ""),
			BaseURL:     getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com"),
			Profile:     getEnv("MAPBOX_PROFILE", "mapbox/driving"),
			TokenTTL:    time.Duration(getEnvAsInt("MAPBOX_TOKEN_TTL_MINUTES", 60)) * time.Minute,
			Timeout:     time.Duration(getEnvAsInt("MAPBOX_TIMEOUT_SECONDS", 8)) * time.Second,
		},
		Cache: CacheConfig{
			FacilitiesTTL: time.Duration(getEnvAsInt("CACHE_FACILITIES_TTL_SECONDS", 180)) * time.Second,
			WarmSchedule:  getEnv("CACHE_WARM_SCHEDULE", "@every 5m"),
		},
		Reviews: ReviewsConfig{
			RateLimit:  getEnvAsInt("REVIEW_RATE_LIMIT", 5),
			RateWindow: time.Duration(getEnvAsInt("REVIEW_RATE_WINDOW_MINUTES", 60)) * time.Minute,
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "health-connect-locator"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot work at all.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Mapbox.TokenTTL <= 0 {
		return fmt.Errorf("MAPBOX_TOKEN_TTL_MINUTES must be positive")
	}
	if (c.Mapbox.SecretToken == "") != (c.Mapbox.Username == "") {
		return fmt.Errorf("MAPBOX_SECRET_TOKEN and MAPBOX_USERNAME must be set together")
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MintsTokens reports whether short-lived tokens can be created.
func (c *MapboxConfig) MintsTokens() bool {
	return c.SecretToken != "" && c.Username != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
