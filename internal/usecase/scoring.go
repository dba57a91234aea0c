package usecase

import (
	"math"

	"github.com/suptia/backend/internal/domain"
)

// Grade-to-score conversion tables. The evidence and safety scales differ
// slightly on purpose: safety grades are anchored higher so a product with
// matching letters still shows safety >= evidence numerically.
var evidenceScores = map[domain.Grade]float64{
	domain.GradeS: 95,
	domain.GradeA: 85,
	domain.GradeB: 75,
	domain.GradeC: 65,
	domain.GradeD: 55,
}

var safetyScores = map[domain.Grade]float64{
	domain.GradeS: 100,
	domain.GradeA: 90,
	domain.GradeB: 80,
	domain.GradeC: 70,
	domain.GradeD: 60,
}

// defaultGrade substitutes for any stored grade outside S-D before scoring.
const defaultGrade = domain.GradeC

// Tier bucketing thresholds: >=90 S, >=80 A, >=70 B, >=60 C, else D.
const (
	tierSMin = 90
	tierAMin = 80
	tierBMin = 70
	tierCMin = 60
)

// ProductScore is the aggregated scoring result for a product.
type ProductScore struct {
	EvidenceScore float64      `json:"evidenceScore"`
	SafetyScore   float64      `json:"safetyScore"`
	Overall       int          `json:"overall"`
	Tier          domain.Grade `json:"tier"`
}

// NormalizeGrade maps an invalid stored grade to the default before scoring.
func NormalizeGrade(g domain.Grade) domain.Grade {
	if g.IsValid() {
		return g
	}
	return defaultGrade
}

// ScoreToTier buckets a numeric score back into a letter tier.
func ScoreToTier(score float64) domain.Grade {
	switch {
	case score >= tierSMin:
		return domain.GradeS
	case score >= tierAMin:
		return domain.GradeA
	case score >= tierBMin:
		return domain.GradeB
	case score >= tierCMin:
		return domain.GradeC
	default:
		return domain.GradeD
	}
}

// ScoreProduct computes a dosage-weighted average of per-ingredient
// evidence/safety scores. Each ingredient's weight is its share of the
// product's total daily active-ingredient mass (amount x servings per day).
// The headline overall score is the rounded mean of the two weighted
// scores.
//
// A product whose every ingredient amount is zero has an undefined weighted
// average; that case returns ErrInsufficientData rather than propagating
// NaN into stored scores.
func ScoreProduct(p *domain.Product) (*ProductScore, error) {
	if p == nil || len(p.Ingredients) == 0 {
		return nil, domain.ErrInsufficientData
	}

	servingsPerDay := p.ServingsPerDay
	if servingsPerDay <= 0 {
		servingsPerDay = 1
	}

	totalDaily := 0.0
	for _, ing := range p.Ingredients {
		if ing.AmountMgPerServing > 0 {
			totalDaily += ing.AmountMgPerServing * float64(servingsPerDay)
		}
	}
	if totalDaily <= 0 {
		return nil, domain.ErrInsufficientData
	}

	evidence := 0.0
	safety := 0.0
	for _, ing := range p.Ingredients {
		if ing.AmountMgPerServing <= 0 {
			continue
		}
		weight := ing.AmountMgPerServing * float64(servingsPerDay) / totalDaily
		evidence += weight * evidenceScores[NormalizeGrade(ing.EvidenceLevel)]
		safety += weight * safetyScores[NormalizeGrade(ing.SafetyLevel)]
	}

	overall := int(math.Round((evidence + safety) / 2))

	return &ProductScore{
		EvidenceScore: evidence,
		SafetyScore:   safety,
		Overall:       overall,
		Tier:          ScoreToTier(float64(overall)),
	}, nil
}
