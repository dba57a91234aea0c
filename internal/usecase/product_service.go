package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/suptia/backend/internal/domain"
)

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// ProductService orchestrates the engine over the content store: it runs
// the validator/calculator/aggregator against stored records, caches
// computed metrics, and writes corrections back via partial updates.
type ProductService struct {
	store       domain.ProductRepository
	marketplace domain.MarketplaceClient
	cache       domain.CacheRepository
	validator   *Validator
	cacheTTL    time.Duration
	debug       bool
}

// NewProductService creates a new product service with dependencies
func NewProductService(
	store domain.ProductRepository,
	marketplace domain.MarketplaceClient,
	cache domain.CacheRepository,
	config ProductServiceConfig,
) *ProductService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 6 * time.Hour
	}

	return &ProductService{
		store:       store,
		marketplace: marketplace,
		cache:       cache,
		validator:   NewValidator(config.EnableDebugLogging),
		cacheTTL:    cacheTTL,
		debug:       config.EnableDebugLogging,
	}
}

// Validator exposes the underlying ingredient validator for callers that
// operate on records they already hold (batch tools).
func (s *ProductService) Validator() *Validator {
	return s.validator
}

// ValidateProduct fetches a product, validates its ingredient amounts, and
// - when fix is true and any amount changed - patches just those amount
// fields back to the store, each addressed by its array item. Dry-run
// (fix=false) reports warnings without writing.
func (s *ProductService) ValidateProduct(ctx context.Context, id string, fix bool) (*domain.BatchValidationResult, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.validator.ValidateIngredients(product.Ingredients, product.Name)

	if fix {
		if patch := amountPatch(product.Ingredients, result.Ingredients); len(patch) > 0 {
			if err := s.store.PatchProduct(ctx, id, patch); err != nil {
				return &result, fmt.Errorf("patching corrected ingredients: %w", err)
			}
			s.invalidateMetrics(ctx, id)
			if s.debug {
				log.Printf("[SERVICE] patched %d amount(s) on %s", len(patch), id)
			}
		}
	}

	return &result, nil
}

// GetProductScore returns the aggregated score for a product, served from
// cache when available. Low-quality inputs surface as ErrInsufficientData.
func (s *ProductService) GetProductScore(ctx context.Context, id string) (*ProductScore, error) {
	cacheKey := "score:" + id
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		if score, ok := decodeCachedScore(cached); ok {
			return score, nil
		}
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	score, err := ScoreProduct(product)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, score, s.cacheTTL); err != nil && s.debug {
		log.Printf("[SERVICE] score cache write failed for %s: %v", id, err)
	}

	return score, nil
}

// SyncPrices fetches the current price from each requested marketplace and
// attaches the computed effective price to every successful quote. Failures
// are reported per-source; Success on the envelope means at least one
// source succeeded.
func (s *ProductService) SyncPrices(ctx context.Context, id domain.Identifier, sources []domain.Source) (*domain.SyncResponse, error) {
	if id.Empty() {
		return nil, domain.ErrInvalidRequest
	}
	if len(sources) == 0 {
		sources = []domain.Source{domain.SourceRakuten, domain.SourceYahoo, domain.SourceAmazon, domain.SourceIHerb}
	}

	resp := &domain.SyncResponse{Timestamp: time.Now()}
	for _, source := range sources {
		if !domain.IsKnownSource(source) {
			resp.Results = append(resp.Results, domain.SyncResult{
				Source: source,
				Error:  domain.ErrUnknownSource.Error(),
			})
			continue
		}

		quote, err := s.marketplace.FetchPrice(ctx, source, id)
		if err != nil {
			resp.Results = append(resp.Results, domain.SyncResult{
				Source: source,
				Error:  err.Error(),
			})
			continue
		}

		base := float64(quote.Price)
		effective := CalculateEffectivePrice(base, GetDefaultShippingFee(source, base), GetDefaultPointRate(source))
		resp.Results = append(resp.Results, domain.SyncResult{
			Source:         source,
			Success:        true,
			Price:          quote.Price,
			Currency:       quote.Currency,
			URL:            quote.URL,
			EffectivePrice: effective.EffectivePrice,
		})
		resp.Success = true
	}

	return resp, nil
}

// invalidateMetrics drops cached metrics after a patch so readers never
// see scores computed from superseded amounts.
func (s *ProductService) invalidateMetrics(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, "score:"+id); err != nil && s.debug {
		log.Printf("[SERVICE] cache invalidation failed for %s: %v", id, err)
	}
}

// amountPatch builds per-item set paths for every amount the validator
// changed. The stored ingredient entries carry a reference to the
// ingredient document, so the patch addresses each amount field through the
// item's array key; replacing the whole array would sever those references
// and null out names/grades on the next read.
func amountPatch(before, after []domain.ProductIngredientAmount) map[string]interface{} {
	fields := make(map[string]interface{})
	for i := range after {
		if i < len(before) && before[i].AmountMgPerServing == after[i].AmountMgPerServing {
			continue
		}

		// Items predating keyed arrays are addressed by position.
		path := fmt.Sprintf("ingredients[%d].amountMgPerServing", i)
		if after[i].Key != "" {
			path = fmt.Sprintf("ingredients[_key==%q].amountMgPerServing", after[i].Key)
		}
		fields[path] = after[i].AmountMgPerServing
	}
	return fields
}

// decodeCachedScore recovers a ProductScore from a cache hit. The memory
// cache round-trips values through JSON, so hits arrive as generic maps.
func decodeCachedScore(value interface{}) (*ProductScore, bool) {
	if score, ok := value.(*ProductScore); ok {
		return score, true
	}
	data, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}

	score := &ProductScore{}
	if v, ok := data["evidenceScore"].(float64); ok {
		score.EvidenceScore = v
	}
	if v, ok := data["safetyScore"].(float64); ok {
		score.SafetyScore = v
	}
	if v, ok := data["overall"].(float64); ok {
		score.Overall = int(v)
	}
	if v, ok := data["tier"].(string); ok {
		score.Tier = domain.Grade(v)
	}
	if score.Tier == "" {
		return nil, false
	}
	return score, true
}
