package crawler

import "context"

// DepositRecord represents one normalized USD term-deposit offer. Records are
// immutable once created by an extraction strategy.
type DepositRecord struct {
	Bank      string  `json:"bank"`
	Site      string  `json:"site"`
	Name      string  `json:"name"`
	Rate      float64 `json:"rate"`
	Currency  string  `json:"currency"`
	SourceURL string  `json:"source_url"`
}

// ResultKind classifies the outcome of processing one input URL.
type ResultKind string

const (
	ResultBlocked            ResultKind = "BLOCKED"
	ResultOK                 ResultKind = "OK"
	ResultJSRenderRequired   ResultKind = "JS_RENDER_REQUIRED"
	ResultNoUSDMatch         ResultKind = "NO_USD_MATCH"
	ResultNoRatesFound       ResultKind = "NO_RATES_FOUND"
	ResultNoMatchingDeposits ResultKind = "NO_MATCHING_DEPOSITS"
	ResultError              ResultKind = "ERROR"
)

// SiteOutcome is produced exactly once per input URL, regardless of how many
// pages were crawled under it.
type SiteOutcome struct {
	InputURL   string     `json:"input_url"`
	Domain     string     `json:"domain"`
	HTTPStatus int        `json:"http_status,omitempty"` // 0 when the root fetch never completed
	Signals    string     `json:"signals,omitempty"`     // comma-joined signal tags
	Result     ResultKind `json:"result"`
	Note       string     `json:"note,omitempty"`
	RowsFound  int        `json:"rows_found"`
}

// Strategy turns one input URL into candidate deposit records. Strategies are
// consulted in registration order; the generic crawl strategy is last and
// claims every domain.
type Strategy interface {
	// CanHandle reports whether this strategy should process the domain.
	CanHandle(domain string) bool

	// Extract fetches whatever the strategy needs and returns the site's
	// deduplicated candidate records.
	Extract(ctx context.Context, url string) ([]DepositRecord, error)

	// Name returns the strategy's name for logging and identification.
	Name() string
}
