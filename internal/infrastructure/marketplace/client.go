package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/suptia/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client fetches current listing prices from the per-marketplace lookup
// APIs. Each source gets its own endpoint from configuration; identifier
// fields map to whatever key that marketplace indexes by (JAN/itemCode for
// the Japanese malls, ASIN for Amazon, EAN for iHerb).
type Client struct {
	httpClient  *http.Client
	endpoints   map[domain.Source]string
	apiKey      string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new marketplace price client
func NewClient(endpoints map[domain.Source]string, apiKey string) *Client {
	// The marketplace APIs publish no rate limits; one request per second
	// with a small burst has never tripped them.
	limiter := rate.NewLimiter(rate.Limit(1), 3)

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		endpoints:   endpoints,
		apiKey:      apiKey,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchPrice looks up the current price for an identifier on one source
func (c *Client) FetchPrice(ctx context.Context, source domain.Source, id domain.Identifier) (*domain.PriceQuote, error) {
	endpoint, ok := c.endpoints[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSource, source)
	}

	params, err := identifierParams(source, id)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		params.Add("api_key", c.apiKey)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "suptia-backend/1.0")

	if c.debug {
		log.Printf("[MARKET] %s lookup: %v", source, params)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMarketplaceAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrMarketplaceAPIFailure, resp.StatusCode, string(body))
	}

	var payload struct {
		Price    int    `json:"price"`
		Currency string `json:"currency"`
		URL      string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Price <= 0 {
		return nil, fmt.Errorf("%w: %s returned no usable price", domain.ErrMarketplaceAPIFailure, source)
	}
	if payload.Currency == "" {
		payload.Currency = "JPY"
	}

	return &domain.PriceQuote{
		Source:   source,
		Price:    payload.Price,
		Currency: payload.Currency,
		URL:      payload.URL,
	}, nil
}

// identifierParams picks the lookup key each marketplace indexes by.
func identifierParams(source domain.Source, id domain.Identifier) (url.Values, error) {
	params := url.Values{}

	switch source {
	case domain.SourceAmazon:
		if id.ASIN != "" {
			params.Add("asin", id.ASIN)
			return params, nil
		}
		if id.JAN != "" {
			params.Add("jan", id.JAN)
			return params, nil
		}
	case domain.SourceRakuten, domain.SourceYahoo:
		if id.ItemCode != "" {
			params.Add("itemCode", id.ItemCode)
			return params, nil
		}
		if id.JAN != "" {
			params.Add("jan", id.JAN)
			return params, nil
		}
	case domain.SourceIHerb:
		if id.EAN != "" {
			params.Add("ean", id.EAN)
			return params, nil
		}
		if id.JAN != "" {
			params.Add("jan", id.JAN)
			return params, nil
		}
	}

	return nil, fmt.Errorf("%w: no usable identifier for %s", domain.ErrInvalidRequest, source)
}
