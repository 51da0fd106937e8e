package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Spoonacular SpoonacularConfig
	NLParser    NLParserConfig
	Enrich      EnrichTuning
	Cache       CacheConfig
	RateLimit   RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SpoonacularConfig holds ingredient API configuration
type SpoonacularConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	PageSize     int    `mapstructure:"page_size"`
}

// NLParserConfig holds NL command service configuration
type NLParserConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EnrichTuning holds the enrichment pipeline's rate-limit tuning. The
// inter-request gaps have no documented derivation from the upstream
// quota, so they stay configurable rather than baked in.
type EnrichTuning struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	BaseGap        time.Duration `mapstructure:"base_gap"`
	BatchPause     time.Duration `mapstructure:"batch_pause"`
	BatchEvery     int           `mapstructure:"batch_every"`
	RetryBase429   time.Duration `mapstructure:"retry_base_429"`
	RetryBaseOther time.Duration `mapstructure:"retry_base_other"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/calorietrack/")

	// Environment variable settings
	v.SetEnvPrefix("CALORIETRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Spoonacular defaults
	v.SetDefault("spoonacular.api_key", "")
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("spoonacular.image_base_url", "https://img.spoonacular.com")
	v.SetDefault("spoonacular.page_size", 100)

	// NL parser defaults (local dev service)
	v.SetDefault("nlparser.base_url", "http://127.0.0.1:8000")
	v.SetDefault("nlparser.timeout", "60s")

	// Enrichment tuning defaults
	v.SetDefault("enrich.max_attempts", 3)
	v.SetDefault("enrich.base_gap", "250ms")
	v.SetDefault("enrich.batch_pause", "50ms")
	v.SetDefault("enrich.batch_every", 50)
	v.SetDefault("enrich.retry_base_429", "800ms")
	v.SetDefault("enrich.retry_base_other", "300ms")

	// Cache defaults
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Spoonacular.APIKey == "" {
		return fmt.Errorf("Spoonacular API key is required (set CALORIETRACK_SPOONACULAR_API_KEY)")
	}

	if config.Spoonacular.PageSize < 1 {
		return fmt.Errorf("spoonacular page size must be positive, got: %d", config.Spoonacular.PageSize)
	}

	if config.NLParser.BaseURL == "" {
		return fmt.Errorf("NL parser base URL is required")
	}

	if config.Enrich.MaxAttempts < 1 {
		return fmt.Errorf("enrich max attempts must be at least 1, got: %d", config.Enrich.MaxAttempts)
	}

	return nil
}
