package domain

// Grade is an editorial S-D rating for an ingredient's evidence or safety.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// IsValid reports whether g is one of the five editorial grades.
func (g Grade) IsValid() bool {
	switch g {
	case GradeS, GradeA, GradeB, GradeC, GradeD:
		return true
	}
	return false
}

// DosingUnit classifies how an ingredient is customarily quantified.
// Mass-dosed ingredients participate in RDA-ratio plausibility checks;
// count-dosed ones (probiotics measured in CFU) are exempt because a
// colony count compared against a milligram allowance is meaningless.
type DosingUnit string

const (
	DosingMass  DosingUnit = "mass"
	DosingCount DosingUnit = "count"
)

// IngredientReference is the canonical record an ingredient amount joins
// against. Name is the canonical Japanese display name; RecommendedDailyMg
// is zero when no established allowance exists.
type IngredientReference struct {
	Name               string     `json:"name"`
	CanonicalAlias     string     `json:"canonicalAlias,omitempty"`
	RecommendedDailyMg float64    `json:"recommendedDailyAmountMg,omitempty"`
	DosingUnit         DosingUnit `json:"dosingUnit,omitempty"`
	EvidenceLevel      Grade      `json:"evidenceLevel,omitempty"`
	SafetyLevel        Grade      `json:"safetyLevel,omitempty"`
}

// ValidationResult is the outcome of validating a single ingredient amount.
// The validator never fails: Value is always the best-effort corrected
// amount, Warning describes any correction or suspicion, and AutoFixed
// marks whether Value differs from the input by an automatic fix.
type ValidationResult struct {
	Value     float64 `json:"value"`
	Warning   string  `json:"warning,omitempty"`
	AutoFixed bool    `json:"autoFixed"`
}

// BatchValidationResult is the outcome of validating a product's full
// ingredient list. Ingredients preserves input order; Warnings aggregates
// every advisory in that same order for operator review.
type BatchValidationResult struct {
	Ingredients []ProductIngredientAmount `json:"ingredients"`
	Warnings    []string                  `json:"warnings"`
}
