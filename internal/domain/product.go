package domain

import "time"

// Source identifies the marketplace a price listing was scraped from.
type Source string

const (
	SourceRakuten Source = "rakuten"
	SourceYahoo   Source = "yahoo"
	SourceAmazon  Source = "amazon"
	SourceIHerb   Source = "iherb"
	SourceManual  Source = "manual"
)

// KnownSources lists every marketplace identifier the engine understands.
var KnownSources = []Source{SourceRakuten, SourceYahoo, SourceAmazon, SourceIHerb, SourceManual}

// IsKnownSource reports whether s is one of the tracked marketplaces.
func IsKnownSource(s Source) bool {
	for _, known := range KnownSources {
		if s == known {
			return true
		}
	}
	return false
}

// PriceListing is one marketplace listing for a product. Prices are
// tax-included yen. HasShippingFee/HasPointBackRate distinguish an explicit
// zero from missing data; missing data falls back to the per-source default
// tables in the price calculator.
type PriceListing struct {
	Source           Source  `json:"source"`
	Amount           int     `json:"amount"` // listed price including tax
	ShippingFee      float64 `json:"shippingFee,omitempty"`
	PointBackRate    float64 `json:"pointBackRate,omitempty"`
	HasShippingFee   bool    `json:"hasShippingFee,omitempty"`
	HasPointBackRate bool    `json:"hasPointBackRate,omitempty"`
	URL              string  `json:"url,omitempty"`
}

// ProductIngredientAmount is one entry in a product's ordered ingredient
// list, as recorded from the marketplace listing. The amount may be zero,
// missing, or off by a factor of 1000 (µg stored as mg) until the validator
// has run.
//
// Key is the stored array item's key. Writes must address individual fields
/// through it: the stored entry holds a reference to the ingredient document,
// and replacing the array would sever that reference.
type ProductIngredientAmount struct {
	Key                string  `json:"key,omitempty"`
	IngredientName     string  `json:"ingredientName"`
	AmountMgPerServing float64 `json:"amountMgPerServing"`
	EvidenceLevel      Grade   `json:"evidenceLevel,omitempty"`
	SafetyLevel        Grade   `json:"safetyLevel,omitempty"`
}

// Product is the content-store record this engine reads and patches.
type Product struct {
	ID                   string                    `json:"id"`
	Name                 string                    `json:"name"`
	Brand                string                    `json:"brand,omitempty"`
	Ingredients          []ProductIngredientAmount `json:"ingredients"`
	PriceListings        []PriceListing            `json:"priceListings,omitempty"`
	ServingsPerContainer int                       `json:"servingsPerContainer,omitempty"`
	ServingsPerDay       int                       `json:"servingsPerDay,omitempty"`
}

// Identifier carries the marketplace lookup keys for a price sync request.
// At least one field must be set.
type Identifier struct {
	JAN      string `json:"jan,omitempty"`
	ASIN     string `json:"asin,omitempty"`
	EAN      string `json:"ean,omitempty"`
	ItemCode string `json:"itemCode,omitempty"`
}

// Empty reports whether no lookup key is set.
func (id Identifier) Empty() bool {
	return id.JAN == "" && id.ASIN == "" && id.EAN == "" && id.ItemCode == ""
}

// PriceQuote is a single per-source result from a marketplace lookup.
type PriceQuote struct {
	Source   Source `json:"source"`
	Price    int    `json:"price"`
	Currency string `json:"currency"`
	URL      string `json:"url,omitempty"`
}

// SyncResult is the per-source entry in a price sync response.
type SyncResult struct {
	Source         Source  `json:"source"`
	Success        bool    `json:"success"`
	Price          int     `json:"price,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	URL            string  `json:"url,omitempty"`
	EffectivePrice float64 `json:"effectivePrice,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// SyncResponse is the full price sync response envelope.
type SyncResponse struct {
	Success   bool         `json:"success"`
	Results   []SyncResult `json:"results"`
	Timestamp time.Time    `json:"timestamp"`
}
