package crawler

import (
	"fmt"
	"sort"
	"strings"
)

// usdTokens are the coarse markers used only for zero-row classification of
// the root page; the extraction engine uses the full classifier.
var usdTokens = []string{"usd", "$", "dollar", "aqsh"}

// dedupKey is the record identity: same site, same normalized name, same rate.
func dedupKey(r DepositRecord) string {
	return fmt.Sprintf("%s|%s|%g", r.Site, strings.ToLower(strings.TrimSpace(r.Name)), r.Rate)
}

// Dedup removes duplicate records, keeping the first occurrence. The operation
// is idempotent and preserves input order.
func Dedup(records []DepositRecord) []DepositRecord {
	if len(records) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(records))
	out := make([]DepositRecord, 0, len(records))
	for _, r := range records {
		key := dedupKey(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// SortRecords orders the final record set for reporting: bank ascending, rate
// descending, name ascending.
func SortRecords(records []DepositRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Bank != records[j].Bank {
			return records[i].Bank < records[j].Bank
		}
		if records[i].Rate != records[j].Rate {
			return records[i].Rate > records[j].Rate
		}
		return records[i].Name < records[j].Name
	})
}

// ClassifyEmpty decides the result for a site that produced zero records,
// from the root page body. The checks run in fixed priority order.
func ClassifyEmpty(probeBody string) (ResultKind, string) {
	if LooksJSEmpty(probeBody) {
		return ResultJSRenderRequired, "HTML looks like a JS shell or too thin"
	}
	if !containsAny(strings.ToLower(probeBody), usdTokens) {
		return ResultNoUSDMatch, "No USD markers found"
	}
	if !strings.Contains(probeBody, "%") {
		return ResultNoRatesFound, "No percent values found"
	}
	return ResultNoMatchingDeposits, "USD markers exist but no valid deposit/rate pairs detected"
}
