package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching computed metrics
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductRepository defines the interface for reading and patching product
// documents in the content store. Patch writes only the provided fields
// (partial update semantics - never a full replace).
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	PatchProduct(ctx context.Context, id string, fields map[string]interface{}) error
}

// MarketplaceClient defines the interface for per-source price lookups
// against external marketplace APIs.
type MarketplaceClient interface {
	FetchPrice(ctx context.Context, source Source, id Identifier) (*PriceQuote, error)
}
