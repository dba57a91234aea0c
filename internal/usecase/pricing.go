package usecase

import (
	"math"

	"github.com/suptia/backend/internal/domain"
)

// Free-shipping thresholds and default point-back rates per marketplace,
// used only when a listing omits explicit shipping/point data.
const (
	rakutenFreeShippingMin = 3980
	yahooFreeShippingMin   = 3980
	iherbFreeShippingMin   = 6000

	rakutenDefaultShipping = 500
	yahooDefaultShipping   = 500
	iherbDefaultShipping   = 800

	amazonDefaultPointRate  = 0.01
	rakutenDefaultPointRate = 0.05
	yahooDefaultPointRate   = 0.03
	iherbDefaultPointRate   = 0.05
)

// PriceBreakdown exposes the three effective-price components for
// display and audit.
type PriceBreakdown struct {
	BasePrice     float64 `json:"basePrice"`
	Shipping      float64 `json:"shipping"`
	PointDiscount float64 `json:"pointDiscount"`
}

// EffectivePriceResult is the output of CalculateEffectivePrice.
type EffectivePriceResult struct {
	EffectivePrice float64        `json:"effectivePrice"`
	PointAmount    float64        `json:"pointAmount"`
	Breakdown      PriceBreakdown `json:"breakdown"`
}

// CalculateEffectivePrice converts a listing into a single comparable
// figure: base price plus shipping minus point-back. Point-back is computed
// on the product price only, never on shipping, and is floored to whole
// points. Malformed inputs are clamped rather than rejected - negative
// prices/fees go to zero and an out-of-range point rate resets to zero.
func CalculateEffectivePrice(basePrice, shippingFee, pointRate float64) EffectivePriceResult {
	basePrice = math.Max(0, basePrice)
	shippingFee = math.Max(0, shippingFee)
	if pointRate < 0 || pointRate > 1 {
		pointRate = 0
	}

	pointAmount := math.Floor(basePrice * pointRate)
	effective := math.Max(0, basePrice+shippingFee-pointAmount)

	return EffectivePriceResult{
		EffectivePrice: effective,
		PointAmount:    pointAmount,
		Breakdown: PriceBreakdown{
			BasePrice:     basePrice,
			Shipping:      shippingFee,
			PointDiscount: pointAmount,
		},
	}
}

// GetDefaultShippingFee returns the assumed shipping fee for a marketplace
// when the listing carries none. The free-shipping boundary is inclusive:
// a 3980 yen Rakuten listing ships free.
func GetDefaultShippingFee(source domain.Source, basePrice float64) float64 {
	switch source {
	case domain.SourceRakuten:
		if basePrice >= rakutenFreeShippingMin {
			return 0
		}
		return rakutenDefaultShipping
	case domain.SourceYahoo:
		if basePrice >= yahooFreeShippingMin {
			return 0
		}
		return yahooDefaultShipping
	case domain.SourceIHerb:
		if basePrice >= iherbFreeShippingMin {
			return 0
		}
		return iherbDefaultShipping
	default:
		// Amazon listings assume free shipping; unknown sources get no markup.
		return 0
	}
}

// GetDefaultPointRate returns the assumed point-back rate for a marketplace
// when the listing carries none.
func GetDefaultPointRate(source domain.Source) float64 {
	switch source {
	case domain.SourceAmazon:
		return amazonDefaultPointRate
	case domain.SourceRakuten:
		return rakutenDefaultPointRate
	case domain.SourceYahoo:
		return yahooDefaultPointRate
	case domain.SourceIHerb:
		return iherbDefaultPointRate
	default:
		return 0
	}
}

// EffectivePriceForListing computes the effective price for one listing,
// substituting per-source defaults for missing shipping/point data.
func EffectivePriceForListing(listing domain.PriceListing) EffectivePriceResult {
	base := float64(listing.Amount)

	shipping := listing.ShippingFee
	if !listing.HasShippingFee {
		shipping = GetDefaultShippingFee(listing.Source, base)
	}

	pointRate := listing.PointBackRate
	if !listing.HasPointBackRate {
		pointRate = GetDefaultPointRate(listing.Source)
	}

	return CalculateEffectivePrice(base, shipping, pointRate)
}

// FindMinEffectivePrice maps every listing through the calculator and
// returns the minimum effective price across sources - the "best real
// price" surfaced to users. An empty listing slice yields 0, a documented
// no-data sentinel rather than an error.
func FindMinEffectivePrice(listings []domain.PriceListing) float64 {
	if len(listings) == 0 {
		return 0
	}

	min := math.Inf(1)
	for _, listing := range listings {
		if result := EffectivePriceForListing(listing); result.EffectivePrice < min {
			min = result.EffectivePrice
		}
	}
	return min
}

// CostPerDay derives the daily cost of a product at its best effective
// price. Returns ErrInsufficientData when servings fields are missing or
// no listing exists - the consuming layer excludes such products from
// cost-comparison views.
func CostPerDay(p *domain.Product) (float64, error) {
	if p == nil || p.ServingsPerContainer <= 0 || p.ServingsPerDay <= 0 {
		return 0, domain.ErrInsufficientData
	}
	best := FindMinEffectivePrice(p.PriceListings)
	if best <= 0 {
		return 0, domain.ErrInsufficientData
	}
	days := float64(p.ServingsPerContainer) / float64(p.ServingsPerDay)
	return best / days, nil
}
