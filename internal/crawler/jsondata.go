package crawler

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"usdscan/depositworker/helpers"
	"usdscan/depositworker/logger"
)

// maxJSONDepth bounds the recursive walk; real payloads are shallow and a
// deeper tree means a malformed or adversarial document.
const maxJSONDepth = 32

var jsonURLRe = regexp.MustCompile(`(?i)https?://[^\s"'<>]+(?:\.json|/api/[^\s"'<>]+|get_list_pages/[^\s"'<>]+)`)

// Field-name probes for JSON objects, in priority order.
var (
	jsonCurrencyKeys = []string{"currency", "valyuta", "валюта"}
	jsonRateKeys     = []string{"percent", "rate", "stavka", "foiz"}
	jsonNameKeys     = []string{"name", "title", "deposit", "product", "caption"}
)

// discoverJSONURLs finds candidate JSON/API endpoints: a URL-pattern scan over
// the raw page source plus anchors pointing at /api/, .json or the known
// listing endpoint path, restricted to the page's domain and capped.
func discoverJSONURLs(baseURL, rawHTML string, doc *goquery.Document, limit int) []string {
	seen := make(map[string]bool)
	var found []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			found = append(found, u)
		}
	}

	for _, m := range jsonURLRe.FindAllString(rawHTML, -1) {
		add(m)
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		h := strings.ToLower(href)
		if strings.Contains(h, "/api/") || strings.Contains(h, "get_list_pages") || strings.HasSuffix(h, ".json") {
			add(helpers.ResolveURL(baseURL, href))
		}
	})

	var out []string
	for _, u := range found {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		if !helpers.SameDomain(baseURL, u) {
			continue
		}
		out = append(out, u)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// extractFromJSONEndpoints is the fallback strategy: fetch each discovered
// endpoint and walk its value tree for USD rate-bearing objects. Per-endpoint
// failures contribute nothing and never abort the crawl.
func extractFromJSONEndpoints(ctx context.Context, fetcher helpers.Fetcher, pageURL, bank, rawHTML string, doc *goquery.Document, limit int) []DepositRecord {
	var out []DepositRecord
	log := logger.ForStrategy("json-endpoint")

	for _, jurl := range discoverJSONURLs(pageURL, rawHTML, doc, limit) {
		resp, err := fetcher.Fetch(ctx, jurl)
		if err != nil {
			log.Debug().Str("url", jurl).Err(err).Msg("Endpoint fetch failed")
			continue
		}

		ct := strings.ToLower(resp.Header.Get("Content-Type"))
		body := strings.TrimSpace(resp.Body)
		if !strings.Contains(ct, "json") && !strings.HasPrefix(body, "{") && !strings.HasPrefix(body, "[") {
			continue
		}

		var data interface{}
		if err := json.Unmarshal([]byte(body), &data); err != nil {
			log.Debug().Str("url", jurl).Err(err).Msg("Endpoint payload is not valid JSON")
			continue
		}

		walkJSON(data, jurl, bank, &out, 0)
	}

	return out
}

// walkJSON recursively descends objects and arrays. Each object that looks
// like a USD entry (explicit currency field, or USD markers across its scalar
// values) yields one candidate record.
func walkJSON(v interface{}, srcURL, bank string, out *[]DepositRecord, depth int) {
	if depth > maxJSONDepth {
		return
	}

	switch obj := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var parts []string
		for _, k := range keys {
			if s := scalarString(obj[k]); s != "" {
				parts = append(parts, helpers.NormalizeSpace(s))
			}
		}
		text := strings.Join(parts, " ")

		currency := ""
		for _, k := range jsonCurrencyKeys {
			if s, ok := obj[k].(string); ok {
				currency = strings.ToUpper(strings.TrimSpace(s))
				break
			}
		}

		if currency == "USD" || (IsUSDContext(text) && strings.Contains(strings.ToLower(text), "usd")) {
			rateRaw := ""
			for _, k := range jsonRateKeys {
				if s := scalarString(obj[k]); s != "" {
					rateRaw = s
					break
				}
			}
			rateText := rateRaw
			if rateText == "" {
				rateText = text
			}

			if rate, ok := ExtractRate(rateText); ok {
				name := ""
				for _, k := range jsonNameKeys {
					if s, isStr := obj[k].(string); isStr && helpers.NormalizeSpace(s) != "" {
						name = helpers.NormalizeSpace(s)
						break
					}
				}
				if name == "" {
					name = bank
				}

				*out = append(*out, DepositRecord{
					Bank:      bank,
					Site:      helpers.DomainOf(srcURL),
					Name:      helpers.Truncate(name, 120),
					Rate:      rate,
					Currency:  "USD",
					SourceURL: srcURL,
				})
			}
		}

		for _, k := range keys {
			walkJSON(obj[k], srcURL, bank, out, depth+1)
		}

	case []interface{}:
		for _, item := range obj {
			walkJSON(item, srcURL, bank, out, depth+1)
		}
	}
}

// scalarString renders a JSON scalar (string or number) as text; containers,
// booleans and null yield an empty string.
func scalarString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	default:
		return ""
	}
}
