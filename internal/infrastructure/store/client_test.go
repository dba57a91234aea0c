package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suptia/backend/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://cms.example.com", "production", "secret-token")

	assert.NotNil(t, client)
	assert.Equal(t, "https://cms.example.com", client.baseURL)
	assert.Equal(t, "production", client.dataset)
	assert.Equal(t, "secret-token", client.token)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestGetProduct_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/data/query/production", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("query"), `"prod-1"`)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		fmt.Fprint(w, `{"result": {
			"id": "prod-1",
			"name": "ネイチャーメイド マルチビタミン",
			"ingredients": [{"key": "ing-a", "ingredientName": "ビタミンC", "amountMgPerServing": 125}],
			"servingsPerContainer": 100,
			"servingsPerDay": 1
		}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "production", "secret-token")
	ctx := context.Background()

	product, err := client.GetProduct(ctx, "prod-1")

	require.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
	assert.Equal(t, "ネイチャーメイド マルチビタミン", product.Name)
	require.Len(t, product.Ingredients, 1)
	assert.Equal(t, "ing-a", product.Ingredients[0].Key)
	assert.Equal(t, "ビタミンC", product.Ingredients[0].IngredientName)
	assert.Equal(t, 125.0, product.Ingredients[0].AmountMgPerServing)
}

func TestGetProduct_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": null}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "production", "")
	_, err := client.GetProduct(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": [
			{"id": "prod-1", "name": "製品A"},
			{"id": "prod-2", "name": "製品B"}
		]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "production", "")
	products, err := client.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "prod-2", products[1].ID)
}

func TestPatchProduct(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/data/mutate/production", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		fmt.Fprint(w, `{"transactionId": "tx-1"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "production", "secret-token")
	err := client.PatchProduct(context.Background(), "prod-1", map[string]interface{}{
		`ingredients[_key=="ing-a"].amountMgPerServing`: 0.48,
	})

	require.NoError(t, err)
	mutations := received["mutations"].([]interface{})
	require.Len(t, mutations, 1)
	patch := mutations[0].(map[string]interface{})["patch"].(map[string]interface{})
	assert.Equal(t, "prod-1", patch["id"])
	// Only set-style partial updates, never a full replace
	assert.Contains(t, patch, "set")
	assert.NotContains(t, patch, "replace")
	set := patch["set"].(map[string]interface{})
	assert.Equal(t, 0.48, set[`ingredients[_key=="ing-a"].amountMgPerServing`])
}

func TestPatchProduct_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "production", "bad-token")
	err := client.PatchProduct(context.Background(), "prod-1", map[string]interface{}{"brand": "x"})

	assert.ErrorIs(t, err, domain.ErrStoreAPIFailure)
}

func TestRunQuery_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"result": [{"id": "prod-1", "name": "製品A"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "production", "")
	products, err := client.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, products, 1)
}
