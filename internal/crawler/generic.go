package crawler

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"usdscan/depositworker/helpers"
	"usdscan/depositworker/logger"
)

// depositLinkHints mark links worth following during the crawl.
var depositLinkHints = []string{
	"deposit", "deposits", "omonat", "omonatlar", "vklad", "vklady", "депозит", "вклад",
	"savings", "saving", "term-deposit", "time-deposit",
}

// GenericStrategy is the catch-all: a bounded breadth-first crawl of
// deposit-relevant same-domain pages, running the heuristic extraction engine
// (tables, generic blocks, JSON endpoints) on every visited page.
type GenericStrategy struct {
	fetcher     helpers.Fetcher
	maxPages    int
	maxLinks    int
	maxJSONURLs int
}

// NewGenericStrategy creates the generic crawl strategy.
func NewGenericStrategy(fetcher helpers.Fetcher, maxPages, maxLinks, maxJSONURLs int) *GenericStrategy {
	return &GenericStrategy{
		fetcher:     fetcher,
		maxPages:    maxPages,
		maxLinks:    maxLinks,
		maxJSONURLs: maxJSONURLs,
	}
}

// Name returns the strategy name.
func (s *GenericStrategy) Name() string {
	return "generic"
}

// CanHandle always claims the domain; this strategy must be registered last.
func (s *GenericStrategy) CanHandle(domain string) bool {
	return true
}

// Extract drives the crawl: root page at depth 0, its in-scope links at depth
// 1, hard-capped on visited pages. Pages that fail to parse contribute zero
// candidates; a fetch failure aborts the site (the caller classifies it).
func (s *GenericStrategy) Extract(ctx context.Context, inputURL string) ([]DepositRecord, error) {
	log := logger.ForStrategy(s.Name())
	fr := newFrontier(inputURL, s.maxPages)
	var all []DepositRecord

	for {
		entry, ok := fr.next()
		if !ok {
			break
		}

		resp, err := s.fetcher.Fetch(ctx, entry.url)
		if err != nil {
			return nil, err
		}

		doc, err := CleanDocument(resp.Body)
		if err != nil {
			log.Debug().Str("url", entry.url).Err(err).Msg("Unparseable page skipped")
			continue
		}

		bank := BankName(doc)
		pageText := helpers.NormalizeSpace(doc.Text())
		forcedUSD := PageForcedUSD(entry.url, pageText)

		deps := extractFromTables(doc, entry.url, bank, forcedUSD)
		deps = append(deps, extractFromBlocks(doc, entry.url, bank, forcedUSD)...)
		if len(deps) == 0 {
			deps = extractFromJSONEndpoints(ctx, s.fetcher, entry.url, bank, resp.Body, doc, s.maxJSONURLs)
		}
		all = append(all, deps...)

		log.Debug().
			Str("url", entry.url).
			Int("depth", entry.depth).
			Int("candidates", len(deps)).
			Msg("Page processed")

		// Only root-page links are expanded; depth-1 pages are leaves.
		if entry.depth < 1 {
			for _, link := range collectLinks(entry.url, doc, s.maxLinks) {
				fr.enqueue(link, entry.depth+1)
			}
		}
	}

	return Dedup(all), nil
}

// collectLinks harvests same-domain links whose URL or anchor text carries a
// deposit keyword or a USD hint, deduplicated by exact URL and capped.
func collectLinks(baseURL string, doc *goquery.Document, limit int) []string {
	var out []string
	seen := make(map[string]bool)

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return true
		}

		u := helpers.ResolveURL(baseURL, href)
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return true
		}
		if !helpers.SameDomain(baseURL, u) {
			return true
		}
		if seen[u] {
			return true
		}
		seen[u] = true

		text := strings.ToLower(helpers.NormalizeSpace(a.Text()))
		lu := strings.ToLower(u)

		if containsAny(lu, depositLinkHints) || containsAny(text, depositLinkHints) {
			out = append(out, u)
		} else if strings.Contains(lu, "usd") || strings.Contains(lu, "currency=usd") ||
			strings.Contains(lu, "valyuta=usd") || strings.Contains(lu, "$") {
			out = append(out, u)
		}

		return len(out) < limit
	})

	return out
}
