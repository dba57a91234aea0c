package usecase

import (
	"fmt"
	"log"
	"strconv"

	"github.com/suptia/backend/internal/domain"
)

// Correction thresholds. A microgram-dosed ingredient recorded at 500x its
// allowance is treated as a µg value mislabeled as mg; ratio anomalies
// outside [RDA/100, RDA*1000] are flagged but never auto-fixed.
const (
	microgramConfusionFactor = 500
	extremeMagnitudeFloor    = 100000
	ratioUpperFactor         = 1000
	ratioLowerFactor         = 0.01
)

// Validator corrects unit-conversion mistakes, zero/missing values, and
// implausible magnitudes in scraped ingredient amounts. It never fails:
// every input yields a best-effort value plus an advisory warning. Whether
// a correction is persisted is the caller's decision.
type Validator struct {
	enableDebugLogging bool
}

// NewValidator creates a new ingredient amount validator
func NewValidator(enableDebugLogging bool) *Validator {
	return &Validator{enableDebugLogging: enableDebugLogging}
}

// ValidateIngredientAmount applies the correction rules to a single
// ingredient amount. productNameText is the raw marketplace title, used to
// recover a quantity when the recorded amount is zero or missing.
//
// Rule order (first applicable rule wins):
//  1. zero/missing amount: extract from product name, else fall back to RDA
//  2. µg/mg confusion for microgram-dosed ingredients
//  3. extreme magnitude (>= 100000), clamped only with a known ceiling
//  4. implausible ratio vs RDA: flagged, never auto-fixed
//  5. otherwise pass through unchanged
func (v *Validator) ValidateIngredientAmount(ingredientName string, amount float64, productNameText string) domain.ValidationResult {
	canonical := ResolveCanonicalName(ingredientName)
	rda, hasRDA := rdaTable[canonical]

	// Rule 1: zero or missing amount.
	if amount <= 0 {
		if extracted, ok := extractAmountFromText(canonical, productNameText); ok {
			v.debugf("extracted %.2fmg for %s from product name", extracted, ingredientName)
			return domain.ValidationResult{
				Value:     extracted,
				Warning:   fmt.Sprintf("%s: amount was missing; recovered %smg from the product name", ingredientName, formatAmount(extracted)),
				AutoFixed: true,
			}
		}
		if hasRDA {
			return domain.ValidationResult{
				Value:     rda,
				Warning:   fmt.Sprintf("%s: amount was missing and nothing extractable in the product name; defaulted to the %smg daily allowance", ingredientName, formatAmount(rda)),
				AutoFixed: true,
			}
		}
		return domain.ValidationResult{
			Value:   0,
			Warning: fmt.Sprintf("%s: amount is missing and no allowance is on file; needs manual review", ingredientName),
		}
	}

	// Rule 2: µg quantity mislabeled as mg.
	if hasRDA && microgramDosed[canonical] && amount >= rda*microgramConfusionFactor {
		corrected := amount / 1000
		v.debugf("µg/mg fix for %s: %.4f -> %.4f", ingredientName, amount, corrected)
		return domain.ValidationResult{
			Value:     corrected,
			Warning:   fmt.Sprintf("%s: %smg looks like a µg value recorded as mg; corrected to %smg", ingredientName, formatAmount(amount), formatAmount(corrected)),
			AutoFixed: true,
		}
	}

	// Rule 3: extreme magnitude.
	if amount >= extremeMagnitudeFloor {
		if ceiling, ok := magnitudeCeilings[canonical]; ok {
			return domain.ValidationResult{
				Value:     ceiling,
				Warning:   fmt.Sprintf("%s: %smg exceeds any plausible serving; clamped to %smg", ingredientName, formatAmount(amount), formatAmount(ceiling)),
				AutoFixed: true,
			}
		}
		return domain.ValidationResult{
			Value:   amount,
			Warning: fmt.Sprintf("%s: %smg is extreme and no known ceiling exists; needs manual review", ingredientName, formatAmount(amount)),
		}
	}

	// Rule 4: implausible ratio against the allowance. CFU-dosed
	// ingredients are exempt - a colony count has no mass allowance.
	if hasRDA && !countDosed[canonical] {
		if amount > rda*ratioUpperFactor {
			return domain.ValidationResult{
				Value:   amount,
				Warning: fmt.Sprintf("%s: %smg is over 1000x the %smg daily allowance; needs manual review", ingredientName, formatAmount(amount), formatAmount(rda)),
			}
		}
		if amount < rda*ratioLowerFactor {
			return domain.ValidationResult{
				Value:   amount,
				Warning: fmt.Sprintf("%s: %smg is under 1%% of the %smg daily allowance; needs manual review", ingredientName, formatAmount(amount), formatAmount(rda)),
			}
		}
	}

	return domain.ValidationResult{Value: amount}
}

// ValidateIngredients applies the single-item rules to every entry in a
// product's ingredient list, preserving order, and aggregates all warnings
// into one ordered collection for operator review.
func (v *Validator) ValidateIngredients(ingredients []domain.ProductIngredientAmount, productNameText string) domain.BatchValidationResult {
	result := domain.BatchValidationResult{
		Ingredients: make([]domain.ProductIngredientAmount, 0, len(ingredients)),
	}

	for _, ing := range ingredients {
		r := v.ValidateIngredientAmount(ing.IngredientName, ing.AmountMgPerServing, productNameText)
		corrected := ing
		corrected.AmountMgPerServing = r.Value
		result.Ingredients = append(result.Ingredients, corrected)
		if r.Warning != "" {
			result.Warnings = append(result.Warnings, r.Warning)
		}
	}

	return result
}

// extractAmountFromText recovers a per-serving mg quantity from a raw
// marketplace title. Explicit unit patterns are tried first - a unit in the
// title is more trustworthy than a bare number after the ingredient name.
// A bare capsule count is the last resort.
func extractAmountFromText(canonicalName, text string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	if m := genericMgPattern.FindStringSubmatch(text); len(m) > 1 {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return v, true
		}
	}
	if m := genericMcgPattern.FindStringSubmatch(text); len(m) > 1 {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return v / 1000, true
		}
	}
	if m := genericGramPattern.FindStringSubmatch(text); len(m) > 1 {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return v * 1000, true
		}
	}

	if pattern, ok := ingredientAmountPatterns[canonicalName]; ok {
		if m := pattern.FindStringSubmatch(text); len(m) > 1 {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
				return v, true
			}
		}
	}

	if m := genericGrainPattern.FindStringSubmatch(text); len(m) > 1 {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return v, true
		}
	}

	return 0, false
}

// formatAmount renders an mg amount without trailing zeros ("480", "0.48").
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (v *Validator) debugf(format string, args ...interface{}) {
	if v.enableDebugLogging {
		log.Printf("[VALIDATE] "+format, args...)
	}
}
