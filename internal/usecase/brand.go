package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Marketplace titles bury the brand under promotional noise:
// "【送料無料】ネイチャーメイド マルチビタミン 60粒" should yield
// "ネイチャーメイド". Extraction is a best-effort heuristic; returning an
// empty string (extraction failed) is the safe failure mode and callers
// supply a fallback.

// bracketNoisePatterns strip paired-delimiter promotional segments.
var bracketNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`【[^】]*】`),
	regexp.MustCompile(`\([^)]*\)`),
	regexp.MustCompile(`（[^）]*）`),
	regexp.MustCompile(`\[[^\]]*\]`),
	regexp.MustCompile(`＜[^＞]*＞`),
	regexp.MustCompile(`<[^>]*>`),
	regexp.MustCompile(`◆[^◆]*◆`),
	regexp.MustCompile(`●[^●]*●`),
	regexp.MustCompile(`★[^★]*★`),
}

// leadingSymbolPattern drops a promotional marker left dangling at the
// start of the title after bracket stripping.
var leadingSymbolPattern = regexp.MustCompile(`^[◆●★☆■♪!！\s　]+`)

// tokenSplitPattern separates the cleaned title into candidate tokens on
// ASCII/full-width whitespace, slash, or hyphen.
var tokenSplitPattern = regexp.MustCompile(`[\s　/／\-]+`)

// leftoverSymbolPattern rejects candidates still carrying bracket or
// emphasis characters that the paired patterns failed to strip.
var leftoverSymbolPattern = regexp.MustCompile(`[【】()（）\[\]＜＞<>◆●★☆■]`)

// brandDenyWords are tokens that can never be a brand: generic category
// words, promotional phrases, shipping-method phrases, and regulatory
// classification strings.
var brandDenyWords = map[string]bool{
	// generic category words
	"サプリメント": true,
	"サプリ":    true,
	"健康食品":   true,
	"栄養補助食品": true,
	"美容":     true,
	"健康":     true,
	"国産":     true,
	"無添加":    true,
	// promotional phrases
	"クーポン":   true,
	"タイムセール": true,
	"限定":     true,
	"期間限定":   true,
	"数量限定":   true,
	"セール":    true,
	"お得":     true,
	"激安":     true,
	"特価":     true,
	"送料無料":   true,
	"ポイント":   true,
	"まとめ買い":  true,
	"セット":    true,
	"福袋":     true,
	// shipping-method phrases
	"メール便":   true,
	"ネコポス":   true,
	"ゆうパケット": true,
	"宅配便":    true,
	"代引不可":   true,
	// regulatory classification strings
	"栄養機能食品":  true,
	"機能性表示食品": true,
	"特定保健用食品": true,
	"医薬部外品":   true,
	"指定医薬部外品": true,
}

// brandDenyPatterns reject promotional tokens that carry numbers and so
// cannot be enumerated: point multipliers, percent-off, bundle counts.
var brandDenyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ポイント\d+倍`),
	regexp.MustCompile(`\d+倍`),
	regexp.MustCompile(`\d+[%％]OFF`),
	regexp.MustCompile(`\d+[%％]オフ`),
	regexp.MustCompile(`\d+(?:個|袋|本|箱)セット`),
	regexp.MustCompile(`^\d+(?:粒|日分|ヶ月分|カ月分|か月分)$`),
	regexp.MustCompile(`^第\d+類医薬品$`),
}

// ExtractBrandFromProductName heuristically extracts a brand token from a
// raw marketplace title. Returns "" when no trustworthy candidate remains.
func ExtractBrandFromProductName(productName string) string {
	if productName == "" {
		return ""
	}

	cleaned := productName
	for _, pattern := range bracketNoisePatterns {
		cleaned = pattern.ReplaceAllString(cleaned, " ")
	}
	cleaned = leadingSymbolPattern.ReplaceAllString(cleaned, "")

	tokens := tokenSplitPattern.Split(strings.TrimSpace(cleaned), -1)
	if len(tokens) == 0 {
		return ""
	}

	candidate := strings.TrimSpace(tokens[0])
	if !isPlausibleBrand(candidate) {
		return ""
	}
	return candidate
}

// ExtractBrandWithFallback substitutes fallbackBrand (e.g. the storefront's
// shop name) when extraction fails.
func ExtractBrandWithFallback(productName, fallbackBrand string) string {
	if brand := ExtractBrandFromProductName(productName); brand != "" {
		return brand
	}
	return fallbackBrand
}

func isPlausibleBrand(candidate string) bool {
	if utf8.RuneCountInString(candidate) < 2 {
		return false
	}
	if brandDenyWords[candidate] {
		return false
	}
	if leftoverSymbolPattern.MatchString(candidate) {
		return false
	}
	for _, pattern := range brandDenyPatterns {
		if pattern.MatchString(candidate) {
			return false
		}
	}
	return true
}
