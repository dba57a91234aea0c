package store

import (
	"bytes"
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

// productProjection is the query projection fetched for every product.
// Only the fields the engine reads are requested; everything else stays in
// the store untouched.
const productProjection = `{
  "id": _id,
  name,
  brand,
  "ingredients": ingredients[]{ "key": _key, "ingredientName": ingredient->name, "amountMgPerServing": amountMgPerServing, "evidenceLevel": ingredient->evidenceLevel, "safetyLevel": ingredient->safetyLevel },
  priceListings,
  servingsPerContainer,
  servingsPerDay
}`

// Client reads and patches product documents in the headless CMS. Writes
// use the mutation endpoint with set-only patches - partial updates, never
// full document replaces.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	dataset     string
	token       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new content store client
func NewClient(baseURL, dataset, token string) *Client {
	// The CMS API tolerates a few requests per second from batch jobs;
	// stay well under that as a courtesy.
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		dataset:     dataset,
		token:       token,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// GetProduct fetches a single product document by id
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`*[_type == "product" && _id == %q][0]%s`, id, productProjection)

	var result domain.Product
	if err := c.runQuery(ctx, query, &result); err != nil {
		return nil, err
	}
	if result.ID == "" {
		return nil, domain.ErrProductNotFound
	}
	return &result, nil
}

// ListProducts fetches every product document in the dataset
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`*[_type == "product"]%s`, productProjection)

	var results []domain.Product
	if err := c.runQuery(ctx, query, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// PatchProduct writes only the provided fields to a product document
func (c *Client) PatchProduct(ctx context.Context, id string, fields map[string]interface{}) error {
	body := map[string]interface{}{
		"mutations": []map[string]interface{}{
			{
				"patch": map[string]interface{}{
					"id":  id,
					"set": fields,
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding patch: %w", err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/data/mutate/%s", c.baseURL, c.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	if c.debug {
		log.Printf("[STORE] PATCH %s fields=%d", id, len(fields))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrStoreAPIFailure, resp.StatusCode, string(respBody))
	}

	return nil
}

// runQuery executes a read query against the store with bounded retry for
// transient failures.
func (c *Client) runQuery(ctx context.Context, query string, out interface{}) error {
	endpoint := fmt.Sprintf("%s/v1/data/query/%s", c.baseURL, c.dataset)
	params := url.Values{}
	params.Add("query", query)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		c.setAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.debug {
				log.Printf("[STORE] request error (attempt %d): %v", attempt, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrStoreAPIFailure, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[STORE] query error (attempt %d) - status: %d, body: %s", attempt, resp.StatusCode, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrStoreAPIFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var envelope struct {
			Result json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
			return nil
		}
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
		return nil
	}

	return lastErr
}

func (c *Client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", "suptia-backend/1.0")
}
