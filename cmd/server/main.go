package main

import (
	"fmt"
	"log"
	"os"

	"github.com/suptia/backend/config"
	httpDelivery "github.com/suptia/backend/internal/delivery/http"
	"github.com/suptia/backend/internal/domain"
	"github.com/suptia/backend/internal/infrastructure/cache"
	"github.com/suptia/backend/internal/infrastructure/marketplace"
	"github.com/suptia/backend/internal/infrastructure/store"
	"github.com/suptia/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Suptia Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store: %s (dataset: %s)", cfg.Store.BaseURL, cfg.Store.Dataset)

	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	storeClient := store.NewClient(cfg.Store.BaseURL, cfg.Store.Dataset, cfg.Store.Token)
	marketClient := marketplace.NewClient(sourceEndpoints(cfg.Marketplace.Endpoints), cfg.Marketplace.APIKey)

	debug := cfg.Server.Environment == "development"
	if debug {
		storeClient.SetDebug(true)
		marketClient.SetDebug(true)
		log.Printf("Debug request logging enabled")
	}

	productService := usecase.NewProductService(
		storeClient,
		marketClient,
		memoryCache,
		usecase.ProductServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: debug,
		},
	)

	handler := httpDelivery.NewHandler(productService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// sourceEndpoints converts the string-keyed config map into typed sources
func sourceEndpoints(endpoints map[string]string) map[domain.Source]string {
	typed := make(map[domain.Source]string, len(endpoints))
	for k, v := range endpoints {
		if v != "" {
			typed[domain.Source(k)] = v
		}
	}
	return typed
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
