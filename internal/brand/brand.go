// Package brand resolves a canonical brand name from the free text found in
// product titles and merchant-supplied brand hints.
package brand

import "strings"

// Rule maps a canonical brand value to the patterns that identify it. Rules
// and patterns are ordered; the first match in table order wins, so a more
// specific rule must be listed before a broader one.
type Rule struct {
	Value    string
	Patterns []string
}

// Rules is the explicit brand table. Patterns are matched case-insensitively
// as substrings of "brand_raw + title".
var Rules = []Rule{
	{Value: "DENSO", Patterns: []string{"denso", "دنسو", "دنزو", "دنسو ياباني", "دنسو تايلندي"}},
	{Value: "AISIN", Patterns: []string{"aisin", "ايسن", "أيسن", "ايسين"}},
	{Value: "KYB", Patterns: []string{"kyb", "كي واي بي", "كيyb"}},
	{Value: "DEPO", Patterns: []string{"depo", "ديبو"}},
	{Value: "555", Patterns: []string{"555", "ثلاث خمسات", "ثلاث خمسات 555"}},
	{Value: "NKN", Patterns: []string{"nkn", "NKN"}},
}

// Default is returned when nothing else matches.
const Default = "عام"

// Markers that a listing claims to be a genuine / dealership part.
var genuineMarkers = []string{"اصلي", "أصلي", "وكالة", "وكاله", "genuine"}

// Toyota model names, Arabic and Latin. A genuine part naming one of these
// is assumed to be a Toyota part.
var toyotaModels = []string{
	"يارس", "yaris",
	"كامري", "camry",
	"كورولا", "corolla",
	"افالون", "avalon",
	"هايلكس", "hilux",
	"لاندكروزر", "land cruiser",
	"برادو", "prado",
}

// Category and origin words that merchants put in the brand column but that
// are not brands.
var nonBrandKeywords = []string{
	"تجاري", "تجارية", "تجاريه",
	"ياباني", "يابانية",
	"تايواني", "تايوانية",
	"صيني", "صينية",
	"كوري", "كورية",
}

// Normalize resolves the canonical brand for a product. It always returns a
// non-empty string. Precedence: explicit rule table, then the genuine-Toyota
// heuristic, then the raw hint (unless it is a non-brand keyword or shorter
// than 3 characters), then Default.
func Normalize(title, rawBrand string) string {
	source := strings.ToLower(rawBrand + " " + title)

	for _, rule := range Rules {
		for _, pattern := range rule.Patterns {
			p := strings.TrimSpace(strings.ToLower(pattern))
			if p == "" {
				continue
			}
			if strings.Contains(source, p) {
				return rule.Value
			}
		}
	}

	if containsAny(source, genuineMarkers) && containsAny(source, toyotaModels) {
		return "TOYOTA"
	}

	if rawBrand != "" && containsAny(strings.ToLower(rawBrand), nonBrandKeywords) {
		rawBrand = ""
	}

	if trimmed := strings.TrimSpace(rawBrand); len([]rune(trimmed)) >= 3 {
		return trimmed
	}

	return Default
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
