package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Upstream CMS configuration
	CMSBaseURL  string `json:"cms_base_url"`
	CMSAPIToken string `json:"cms_api_token"`

	// Locales
	DefaultLocale string `json:"default_locale"`
	AltLocale     string `json:"alt_locale"`

	// Cache configuration
	ArticleCacheTTL  time.Duration `json:"article_cache_ttl"`
	TaxonomyCacheTTL time.Duration `json:"taxonomy_cache_ttl"`

	// Logging
	LogLevel string `json:"log_level"`

	// Security
	AdminAPIKey string `json:"admin_api_key"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Upstream CMS configuration
		CMSBaseURL:  getEnv("CMS_BASE_URL", ""),
		CMSAPIToken: getEnv("CMS_API_TOKEN", ""),

		// Locales
		DefaultLocale: getEnv("DEFAULT_LOCALE", "tr"),
		AltLocale:     getEnv("ALT_LOCALE", "en"),

		// Cache configuration: articles and search results turn over quickly,
		// categories and authors change rarely
		ArticleCacheTTL:  getEnvAsDuration("ARTICLE_CACHE_TTL", 5*time.Minute),
		TaxonomyCacheTTL: getEnvAsDuration("TAXONOMY_CACHE_TTL", 1*time.Hour),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate validates the configuration. Upstream CMS credentials are
// required: without them every operation fails, so absence is fatal at
// startup rather than discovered on the first request.
func (c *Config) Validate() error {
	if c.CMSBaseURL == "" {
		return fmt.Errorf("CMS_BASE_URL is required")
	}
	if c.CMSAPIToken == "" {
		return fmt.Errorf("CMS_API_TOKEN is required")
	}
	if c.DefaultLocale == "" {
		return fmt.Errorf("DEFAULT_LOCALE must not be empty")
	}
	return nil
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
