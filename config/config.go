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
	Store       StoreConfig
	Marketplace MarketplaceConfig
	Cache       CacheConfig
	Batch       BatchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig holds content store (CMS) configuration
type StoreConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Dataset string `mapstructure:"dataset"`
	Token   string `mapstructure:"token"`
}

// MarketplaceConfig holds per-source price lookup configuration
type MarketplaceConfig struct {
	APIKey    string            `mapstructure:"api_key"`
	Endpoints map[string]string `mapstructure:"endpoints"`
}

// CacheConfig holds metric cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// BatchConfig holds settings for batch maintenance jobs: how many records
// are processed in flight and the courtesy delay between external calls.
type BatchConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Delay       time.Duration `mapstructure:"delay"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/suptia/")

	v.SetEnvPrefix("SUPTIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"https://suptia.com", "http://localhost:3000"})

	// Store defaults
	v.SetDefault("store.dataset", "production")

	// Marketplace defaults - per-source lookup proxies
	v.SetDefault("marketplace.endpoints", map[string]string{
		"rakuten": "https://api.suptia.com/proxy/rakuten",
		"yahoo":   "https://api.suptia.com/proxy/yahoo",
		"amazon":  "https://api.suptia.com/proxy/amazon",
		"iherb":   "https://api.suptia.com/proxy/iherb",
	})

	// Cache defaults
	v.SetDefault("cache.ttl", "6h")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.delay", "500ms")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.BaseURL == "" {
		return fmt.Errorf("content store base URL is required (set SUPTIA_STORE_BASE_URL)")
	}

	if config.Batch.Concurrency < 1 {
		return fmt.Errorf("batch concurrency must be at least 1, got: %d", config.Batch.Concurrency)
	}

	if config.Batch.Delay < 0 {
		return fmt.Errorf("batch delay must not be negative, got: %s", config.Batch.Delay)
	}

	return nil
}
