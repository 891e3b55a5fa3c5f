package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Embedding providers
const (
	ProviderVoyage = "voyage"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Clustering ClusteringConfig `mapstructure:"clustering"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	HS         HSConfig         `mapstructure:"hs"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// EmbeddingConfig holds embedding gateway configuration
type EmbeddingConfig struct {
	Provider              string        `mapstructure:"provider"` // "voyage", "openai" or "none"
	APIKey                string        `mapstructure:"api_key"`
	BaseURL               string        `mapstructure:"base_url"`
	Model                 string        `mapstructure:"model"`
	Dimensions            int           `mapstructure:"dimensions"`
	Timeout               time.Duration `mapstructure:"timeout"`
	BatchSize             int           `mapstructure:"batch_size"`
	MaxConcurrentRequests int           `mapstructure:"max_concurrent_requests"`
	RequestsPerSecond     float64       `mapstructure:"requests_per_second"`
}

// LLMConfig holds the optional LLM categorizer configuration
type LLMConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ClusteringConfig holds clustering configuration
type ClusteringConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

// MatchingConfig holds category matching configuration
type MatchingConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	EnableDebugLogging  bool    `mapstructure:"enable_debug_logging"`
}

// HSConfig holds HS code suggestion configuration
type HSConfig struct {
	ConfidenceThreshold   float64 `mapstructure:"confidence_threshold"`
	PreferredChapterBoost float64 `mapstructure:"preferred_chapter_boost"`
	MaxSuggestions        int     `mapstructure:"max_suggestions"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	MaxEntries        int           `mapstructure:"max_entries"`
	EmbeddingTTL      time.Duration `mapstructure:"embedding_ttl"`
	ClassificationTTL time.Duration `mapstructure:"classification_ttl"`
	HSTTL             time.Duration `mapstructure:"hs_ttl"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// CatalogConfig holds catalog data locations
type CatalogConfig struct {
	CategoriesPath string `mapstructure:"categories_path"`
	HSDatabasePath string `mapstructure:"hs_database_path"`
	HSSeedPath     string `mapstructure:"hs_seed_path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration like Load, reading configFile instead of
// searching the default locations when it is non-empty.
func LoadFile(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/exportlens/")
	}

	// Environment variable settings: embedding.api_key -> EXPORTLENS_EMBEDDING_API_KEY
	v.SetEnvPrefix("EXPORTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional unless one was named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadEnvFile loads a .env file from the working directory. A missing file is
// not an error, and variables already set in the environment win.
func LoadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Embedding defaults
	v.SetDefault("embedding.provider", ProviderVoyage)
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.model", "voyage-3.5-lite")
	v.SetDefault("embedding.dimensions", 1024)
	v.SetDefault("embedding.timeout", "10s")
	v.SetDefault("embedding.batch_size", 16)
	v.SetDefault("embedding.max_concurrent_requests", 4)
	v.SetDefault("embedding.requests_per_second", 5)

	// LLM defaults
	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4.1-mini")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "20s")

	// Matching defaults
	v.SetDefault("clustering.similarity_threshold", 0.75)
	v.SetDefault("matching.confidence_threshold", 0.6)
	v.SetDefault("matching.enable_debug_logging", false)

	// HS defaults
	v.SetDefault("hs.confidence_threshold", 0.3)
	v.SetDefault("hs.preferred_chapter_boost", 0.15)
	v.SetDefault("hs.max_suggestions", 5)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_entries", 10000)
	v.SetDefault("cache.embedding_ttl", "720h") // 30 days
	v.SetDefault("cache.classification_ttl", "30m")
	v.SetDefault("cache.hs_ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Catalog defaults
	v.SetDefault("catalog.categories_path", "")
	v.SetDefault("catalog.hs_database_path", "exportlens.db")
	v.SetDefault("catalog.hs_seed_path", "")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Embedding.Provider {
	case ProviderVoyage, ProviderOpenAI:
		if config.Embedding.APIKey == "" {
			return fmt.Errorf("embedding API key is required for provider %q (set EXPORTLENS_EMBEDDING_API_KEY)", config.Embedding.Provider)
		}
	case ProviderNone:
	default:
		return fmt.Errorf("embedding provider must be 'voyage', 'openai' or 'none', got: %s", config.Embedding.Provider)
	}

	if config.LLM.Enabled && config.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required when llm.enabled is true (set EXPORTLENS_LLM_API_KEY)")
	}

	thresholds := []struct {
		name  string
		value float64
	}{
		{"clustering.similarity_threshold", config.Clustering.SimilarityThreshold},
		{"matching.confidence_threshold", config.Matching.ConfidenceThreshold},
		{"hs.confidence_threshold", config.HS.ConfidenceThreshold},
	}
	for _, th := range thresholds {
		if th.value <= 0 || th.value > 1 {
			return fmt.Errorf("%s must be in (0, 1], got: %v", th.name, th.value)
		}
	}

	if config.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding.batch_size must be positive, got: %d", config.Embedding.BatchSize)
	}
	if config.Embedding.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("embedding.max_concurrent_requests must be positive, got: %d", config.Embedding.MaxConcurrentRequests)
	}
	if config.HS.MaxSuggestions <= 0 {
		return fmt.Errorf("hs.max_suggestions must be positive, got: %d", config.HS.MaxSuggestions)
	}

	return nil
}
