package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suptia/backend/internal/domain"
)

func testEndpoints(serverURL string) map[domain.Source]string {
	return map[domain.Source]string{
		domain.SourceRakuten: serverURL + "/rakuten/price",
		domain.SourceYahoo:   serverURL + "/yahoo/price",
		domain.SourceAmazon:  serverURL + "/amazon/price",
		domain.SourceIHerb:   serverURL + "/iherb/price",
	}
}

func TestFetchPrice_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rakuten/price", r.URL.Path)
		assert.Equal(t, "4900000000000", r.URL.Query().Get("jan"))
		fmt.Fprint(w, `{"price": 3980, "currency": "JPY", "url": "https://item.rakuten.example/x"}`)
	}))
	defer server.Close()

	client := NewClient(testEndpoints(server.URL), "")
	quote, err := client.FetchPrice(context.Background(), domain.SourceRakuten, domain.Identifier{JAN: "4900000000000"})

	require.NoError(t, err)
	assert.Equal(t, domain.SourceRakuten, quote.Source)
	assert.Equal(t, 3980, quote.Price)
	assert.Equal(t, "JPY", quote.Currency)
	assert.Equal(t, "https://item.rakuten.example/x", quote.URL)
}

func TestFetchPrice_IdentifierMapping(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			gotQuery[k] = v[0]
		}
		fmt.Fprint(w, `{"price": 1000}`)
	}))
	defer server.Close()

	client := NewClient(testEndpoints(server.URL), "")
	ctx := context.Background()
	id := domain.Identifier{JAN: "49001", ASIN: "B0001", EAN: "45001", ItemCode: "shop:item"}

	testCases := []struct {
		source  domain.Source
		wantKey string
		wantVal string
	}{
		{domain.SourceAmazon, "asin", "B0001"},
		{domain.SourceRakuten, "itemCode", "shop:item"},
		{domain.SourceYahoo, "itemCode", "shop:item"},
		{domain.SourceIHerb, "ean", "45001"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.source), func(t *testing.T) {
			_, err := client.FetchPrice(ctx, tc.source, id)
			require.NoError(t, err)
			assert.Equal(t, tc.wantVal, gotQuery[tc.wantKey])
		})
	}
}

func TestFetchPrice_FallsBackToJAN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "49001", r.URL.Query().Get("jan"))
		fmt.Fprint(w, `{"price": 1000}`)
	}))
	defer server.Close()

	client := NewClient(testEndpoints(server.URL), "")
	quote, err := client.FetchPrice(context.Background(), domain.SourceRakuten, domain.Identifier{JAN: "49001"})

	require.NoError(t, err)
	// Currency defaults to JPY when the API omits it
	assert.Equal(t, "JPY", quote.Currency)
}

func TestFetchPrice_NoUsableIdentifier(t *testing.T) {
	client := NewClient(testEndpoints("http://unused.example"), "")
	_, err := client.FetchPrice(context.Background(), domain.SourceAmazon, domain.Identifier{ItemCode: "shop:item"})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestFetchPrice_UnknownSource(t *testing.T) {
	client := NewClient(map[domain.Source]string{}, "")
	_, err := client.FetchPrice(context.Background(), domain.SourceRakuten, domain.Identifier{JAN: "49001"})

	assert.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestFetchPrice_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testEndpoints(server.URL), "")
	_, err := client.FetchPrice(context.Background(), domain.SourceAmazon, domain.Identifier{ASIN: "B0404"})

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFetchPrice_RejectsZeroPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"price": 0}`)
	}))
	defer server.Close()

	client := NewClient(testEndpoints(server.URL), "")
	_, err := client.FetchPrice(context.Background(), domain.SourceAmazon, domain.Identifier{ASIN: "B0001"})

	assert.ErrorIs(t, err, domain.ErrMarketplaceAPIFailure)
}

func TestFetchPrice_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testEndpoints(server.URL), "")
	_, err := client.FetchPrice(context.Background(), domain.SourceYahoo, domain.Identifier{JAN: "49001"})

	assert.ErrorIs(t, err, domain.ErrMarketplaceAPIFailure)
}
