package crawler

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"usdscan/depositworker/helpers"
)

// Keyword hints, kept as data rather than control flow so they stay auditable.
var (
	rateHints = []string{"rate", "annual", "stavka", "foiz", "процент", "yillik", "годовых", "%"}

	currencyHeaderHints = []string{"currency", "валюта", "valyuta", "usd"}
	nameHeaderHints     = []string{"deposit", "вклад", "депозит", "omonat"}

	// Names matching these are navigation/consent chrome, not deposit products.
	nameStopWords = []string{"cookie", "privacy", "policy", "search", "subscribe"}
)

// noiseRe matches CSS/markup leakage that sometimes survives tag stripping.
// Unit tokens require a leading digit so product names like "Premium" are not
// mistaken for CSS.
var noiseRe = regexp.MustCompile(`(?i)(\{|\}|@font-face|/\*|\*/|\d(px|rem|vh|vw)\b|var\(|normalize\.css)`)

// isNoise reports whether a text fragment is too short or looks like style
// leakage rather than content.
func isNoise(s string) bool {
	t := helpers.NormalizeSpace(s)
	if len([]rune(t)) < 2 {
		return true
	}
	return noiseRe.MatchString(t)
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// CleanDocument parses HTML and drops script/style/noscript content so text
// scans see only rendered content.
func CleanDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, noscript").Remove()
	return doc, nil
}

// BankName picks the page's bank name: first h1, falling back to the title,
// falling back to a fixed placeholder.
func BankName(doc *goquery.Document) string {
	if v := helpers.NormalizeSpace(doc.Find("h1").First().Text()); v != "" {
		return helpers.Truncate(v, 80)
	}
	if v := helpers.NormalizeSpace(doc.Find("title").First().Text()); v != "" {
		return helpers.Truncate(v, 80)
	}
	return "Unknown Bank"
}

// pickNameFromBlock extracts a display name from a row-like element: the first
// heading/strong/link text that is not noise, else the truncated block text.
func pickNameFromBlock(s *goquery.Selection) string {
	for _, tag := range []string{"h1", "h2", "h3", "h4", "strong", "b", "a"} {
		n := s.Find(tag).First()
		if n.Length() == 0 {
			continue
		}
		v := helpers.NormalizeSpace(n.Text())
		if v != "" && !isNoise(v) {
			return v
		}
	}
	return helpers.Truncate(helpers.NormalizeSpace(s.Text()), 120)
}

// cellTexts returns the normalized text of each cell in a table row.
func cellTexts(cells *goquery.Selection) []string {
	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		out = append(out, helpers.NormalizeSpace(c.Text()))
	})
	return out
}

// extractFromTables runs the table strategy: locate currency/rate/name columns
// by header keywords, then turn each USD-applicable data row into a candidate.
func extractFromTables(doc *goquery.Document, pageURL, bank string, forcedUSD bool) []DepositRecord {
	var out []DepositRecord
	site := helpers.DomainOf(pageURL)

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}

		curIdx, rateIdx, nameIdx := -1, -1, -1
		for i, h := range cellTexts(rows.First().Find("th, td")) {
			h = strings.ToLower(h)
			if curIdx == -1 && containsAny(h, currencyHeaderHints) {
				curIdx = i
			}
			if rateIdx == -1 && containsAny(h, rateHints) {
				rateIdx = i
			}
			if nameIdx == -1 && containsAny(h, nameHeaderHints) {
				nameIdx = i
			}
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
			cells := cellTexts(tr.Find("td, th"))
			if len(cells) == 0 {
				return
			}

			rowText := helpers.NormalizeSpace(strings.Join(cells, " "))
			if isNoise(rowText) {
				return
			}

			curText := ""
			if curIdx >= 0 && curIdx < len(cells) {
				curText = cells[curIdx]
			}

			if !forcedUSD && !IsUSDContext(rowText) && !IsUSDContext(curText) {
				return
			}

			low := strings.ToLower(rowText)
			if containsAny(low, usdNegative) && !containsAny(low, usdPositive) {
				return
			}

			rateText := rowText
			if rateIdx >= 0 && rateIdx < len(cells) {
				rateText = cells[rateIdx]
			}
			rate, ok := ExtractRate(rateText)
			if !ok {
				return
			}

			name := ""
			if nameIdx >= 0 && nameIdx < len(cells) {
				name = cells[nameIdx]
			}
			if name == "" {
				name = pickNameFromBlock(tr)
			}
			if name == "" || isNoise(name) {
				return
			}

			out = append(out, DepositRecord{
				Bank:      bank,
				Site:      site,
				Name:      name,
				Rate:      rate,
				Currency:  "USD",
				SourceURL: pageURL,
			})
		})
	})

	return out
}

// extractFromBlocks runs the generic block strategy over row-like elements,
// applying the same rate/name/USD heuristics without table structure.
func extractFromBlocks(doc *goquery.Document, pageURL, bank string, forcedUSD bool) []DepositRecord {
	var out []DepositRecord
	site := helpers.DomainOf(pageURL)

	doc.Find("tr, article, li, section, div").Each(func(_ int, block *goquery.Selection) {
		// Rows of multi-row tables belong to the table strategy; scanning them
		// again would emit near-duplicates under a different name.
		if goquery.NodeName(block) == "tr" {
			if t := block.Closest("table"); t.Length() > 0 && t.Find("tr").Length() >= 2 {
				return
			}
		}

		bt := helpers.NormalizeSpace(block.Text())
		if bt == "" || isNoise(bt) {
			return
		}
		if !hasDigit(bt) {
			return
		}

		low := strings.ToLower(bt)
		if !strings.Contains(bt, "%") && !containsAny(low, rateHints) {
			return
		}

		if !forcedUSD && !IsUSDContext(bt) {
			return
		}
		if containsAny(low, usdNegative) && !containsAny(low, usdPositive) {
			return
		}

		rate, ok := ExtractRate(bt)
		if !ok {
			return
		}

		name := pickNameFromBlock(block)
		if name == "" || isNoise(name) {
			return
		}
		if containsAny(strings.ToLower(name), nameStopWords) {
			return
		}

		out = append(out, DepositRecord{
			Bank:      bank,
			Site:      site,
			Name:      name,
			Rate:      rate,
			Currency:  "USD",
			SourceURL: pageURL,
		})
	})

	return out
}
