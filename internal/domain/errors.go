package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product cannot be found in the content store
	ErrProductNotFound = errors.New("product not found in content store")

	// ErrInsufficientData is returned when a product lacks the data needed to compute a metric
	// (e.g. all ingredient amounts are zero, or servings fields are missing)
	ErrInsufficientData = errors.New("insufficient data to compute metric")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreAPIFailure is returned when a content store request fails
	ErrStoreAPIFailure = errors.New("content store request failed")

	// ErrMarketplaceAPIFailure is returned when a marketplace price lookup fails
	ErrMarketplaceAPIFailure = errors.New("marketplace API request failed")

	// ErrUnknownSource is returned when a price lookup names a marketplace the engine does not track
	ErrUnknownSource = errors.New("unknown marketplace source")
)
