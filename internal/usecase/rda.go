package usecase

import (
	"regexp"

	"github.com/suptia/backend/internal/domain"
)

// rdaTable maps canonical Japanese ingredient names to their recommended
// daily allowance in mg. Values follow the Japanese dietary reference
// intakes for adults; ingredients without an established allowance are
// absent rather than zero.
var rdaTable = map[string]float64{
	"ビタミンA":     0.77,
	"ビタミンB1":    1.2,
	"ビタミンB2":    1.4,
	"ビタミンB6":    1.4,
	"ビタミンB12":   0.0024,
	"ビタミンC":     100,
	"ビタミンD":     0.0085,
	"ビタミンE":     6.0,
	"ビタミンK":     0.15,
	"ナイアシン":     15,
	"葉酸":        0.48,
	"ビオチン":      0.05,
	"パントテン酸":    5,
	"カルシウム":     650,
	"マグネシウム":    340,
	"亜鉛":        11,
	"鉄":         7.5,
	"銅":         0.9,
	"マンガン":      4.0,
	"セレン":       0.03,
	"クロム":       0.01,
	"モリブデン":     0.025,
	"ヨウ素":       0.13,
	"カリウム":      2500,
	"DHA":       1000,
	"EPA":       900,
	"コエンザイムQ10": 100,
	"ルテイン":      10,
	"コラーゲン":     5000,
	"グルコサミン":    1500,
	"コンドロイチン":   800,
}

// ingredientAliases resolves marketplace synonyms and chemical names to
// the canonical name used as the RDA table key.
var ingredientAliases = map[string]string{
	"アスコルビン酸":   "ビタミンC",
	"コレカルシフェロール": "ビタミンD",
	"ビタミンD3":    "ビタミンD",
	"トコフェロール":   "ビタミンE",
	"シアノコバラミン":  "ビタミンB12",
	"メチルコバラミン":  "ビタミンB12",
	"ナイアシンアミド":  "ナイアシン",
	"プテロイルグルタミン酸": "葉酸",
	"フォリックアシッド": "葉酸",
	"チアミン":      "ビタミンB1",
	"リボフラビン":    "ビタミンB2",
	"ピリドキシン":    "ビタミンB6",
	"CoQ10":     "コエンザイムQ10",
	"ユビキノール":    "コエンザイムQ10",
	"マリンコラーゲン":  "コラーゲン",
	"フィッシュコラーゲン": "コラーゲン",
}

// microgramDosed marks ingredients customarily dosed in micrograms. An
// amount recorded for one of these at 500x its RDA or more is almost
// certainly a µg quantity mislabeled as mg.
var microgramDosed = map[string]bool{
	"葉酸":      true,
	"ビオチン":    true,
	"ビタミンB12": true,
	"ビタミンD":   true,
	"ビタミンK":   true,
	"セレン":     true,
	"クロム":     true,
	"モリブデン":   true,
}

// countDosed marks ingredients quantified in colony-forming units rather
// than mass. They are exempt from the RDA-ratio plausibility check.
var countDosed = map[string]bool{
	"乳酸菌":    true,
	"ビフィズス菌": true,
	"酪酸菌":    true,
}

// magnitudeCeilings caps ingredients with a known plausible per-serving
// maximum when the recorded amount is extreme (>= 100000).
var magnitudeCeilings = map[string]float64{
	"コラーゲン": 5000,
}

// ingredientAmountPatterns extracts a per-serving quantity from free-text
// product names for specific ingredients where marketplaces habitually put
// the dose right after the name (e.g. "ビタミンC1000" means 1000mg).
var ingredientAmountPatterns = map[string]*regexp.Regexp{
	"ビタミンC":   regexp.MustCompile(`ビタミンC\s*(\d+(?:\.\d+)?)`),
	"コラーゲン":   regexp.MustCompile(`コラーゲン\s*(\d+(?:\.\d+)?)`),
	"グルコサミン":  regexp.MustCompile(`グルコサミン\s*(\d+(?:\.\d+)?)`),
	"コンドロイチン": regexp.MustCompile(`コンドロイチン\s*(\d+(?:\.\d+)?)`),
	"DHA":     regexp.MustCompile(`DHA\s*(\d+(?:\.\d+)?)`),
	"EPA":     regexp.MustCompile(`EPA\s*(\d+(?:\.\d+)?)`),
	"亜鉛":      regexp.MustCompile(`亜鉛\s*(\d+(?:\.\d+)?)`),
}

// Generic unit patterns, tried before the ingredient-specific bare-number
// patterns. Grams convert to mg; µg converts down.
var (
	genericMgPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*mg`)
	genericMcgPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:µg|μg|mcg)`)
	genericGramPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*g(?:ラム)?(?:[^a-z]|$)`)
	genericGrainPattern = regexp.MustCompile(`(\d+)\s*粒`)
)

// ResolveCanonicalName maps an ingredient name through the alias table.
// Unknown names pass through unchanged.
func ResolveCanonicalName(name string) string {
	if canonical, ok := ingredientAliases[name]; ok {
		return canonical
	}
	return name
}

// LookupRDA returns the recommended daily allowance in mg for an
// ingredient name (alias-resolved), or (0, false) if none is established.
func LookupRDA(name string) (float64, bool) {
	rda, ok := rdaTable[ResolveCanonicalName(name)]
	return rda, ok
}

// LookupIngredientReference assembles the canonical reference record for a name.
func LookupIngredientReference(name string) domain.IngredientReference {
	canonical := ResolveCanonicalName(name)
	ref := domain.IngredientReference{
		Name:       name,
		DosingUnit: domain.DosingMass,
	}
	if canonical != name {
		ref.CanonicalAlias = canonical
	}
	if rda, ok := rdaTable[canonical]; ok {
		ref.RecommendedDailyMg = rda
	}
	if countDosed[canonical] {
		ref.DosingUnit = domain.DosingCount
	}
	return ref
}
