package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("SUPTIA_SERVER_PORT")
		os.Unsetenv("SUPTIA_SERVER_ENVIRONMENT")
		os.Unsetenv("SUPTIA_STORE_BASE_URL")
		os.Unsetenv("SUPTIA_STORE_DATASET")
		os.Unsetenv("SUPTIA_STORE_TOKEN")
		os.Unsetenv("SUPTIA_MARKETPLACE_API_KEY")
		os.Unsetenv("SUPTIA_CACHE_TTL")
		os.Unsetenv("SUPTIA_BATCH_CONCURRENCY")
		os.Unsetenv("SUPTIA_BATCH_DELAY")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SUPTIA_STORE_BASE_URL", "https://cms.example.com")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Store.Dataset != "production" {
			t.Errorf("Store.Dataset = %s, want production", cfg.Store.Dataset)
		}
		if cfg.Cache.TTL != 6*time.Hour {
			t.Errorf("Cache.TTL = %v, want 6h", cfg.Cache.TTL)
		}
		if cfg.Batch.Concurrency != 4 {
			t.Errorf("Batch.Concurrency = %d, want 4", cfg.Batch.Concurrency)
		}
		if cfg.Batch.Delay != 500*time.Millisecond {
			t.Errorf("Batch.Delay = %v, want 500ms", cfg.Batch.Delay)
		}
		if cfg.Marketplace.Endpoints["rakuten"] == "" {
			t.Error("Marketplace.Endpoints missing rakuten default")
		}
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SUPTIA_STORE_BASE_URL", "https://cms.example.com")
		os.Setenv("SUPTIA_SERVER_PORT", "9090")
		os.Setenv("SUPTIA_STORE_DATASET", "staging")
		os.Setenv("SUPTIA_BATCH_CONCURRENCY", "8")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Store.Dataset != "staging" {
			t.Errorf("Store.Dataset = %s, want staging", cfg.Store.Dataset)
		}
		if cfg.Batch.Concurrency != 8 {
			t.Errorf("Batch.Concurrency = %d, want 8", cfg.Batch.Concurrency)
		}
	})

	t.Run("fails without store base URL", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error about missing store base URL")
		}
	})

	t.Run("rejects zero batch concurrency", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SUPTIA_STORE_BASE_URL", "https://cms.example.com")
		os.Setenv("SUPTIA_BATCH_CONCURRENCY", "0")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error about batch concurrency")
		}
	})
}
