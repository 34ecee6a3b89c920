package crawler

import (
	"strings"
)

// Currency marker tokens. Kept as data so the lists stay auditable; the
// multilingual variants cover the Uzbek banking sites this engine targets.
var (
	usdPositive = []string{"usd", "us dollar", "dollar", "aqsh dollar", "aqsh doll", "$", "доллар", "долл"}
	usdNegative = []string{"uzs", "so'm", "som", "сум", "sum", "сўм"}
)

func containsAny(text string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

// IsUSDContext reports whether a text fragment refers to USD. An explicit
// non-USD currency marker suppresses a match only when no USD marker co-occurs.
func IsUSDContext(text string) bool {
	t := strings.ToLower(text)
	if containsAny(t, usdNegative) && !containsAny(t, usdPositive) {
		return false
	}
	return containsAny(t, usdPositive)
}

// PageForcedUSD reports whether a page is pinned to USD by its URL (query
// parameter or path) or by unambiguous page text, overriding per-row currency
// ambiguity during extraction.
func PageForcedUSD(pageURL, pageText string) bool {
	u := strings.ToLower(pageURL)
	if strings.Contains(u, "currency=usd") || strings.Contains(u, "valyuta=usd") || strings.Contains(u, "usd") {
		return true
	}

	t := strings.ToLower(pageText)
	if strings.Contains(" "+t+" ", " usd ") && !containsAny(t, usdNegative) {
		return true
	}
	return false
}
