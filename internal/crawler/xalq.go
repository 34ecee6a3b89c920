package crawler

import (
	"context"
	"encoding/json"
	"strings"

	"usdscan/depositworker/helpers"
	errs "usdscan/depositworker/pkg/errors"
)

// DefaultXalqEndpoint is the public open-data listing of Xalq banki deposits.
const DefaultXalqEndpoint = "https://data.egov.uz/apiData/MainData/GetByFile" +
	"?fileType=1&id=61121d80db32b99538e0833c&lang=1&tableType=2"

// Open-data column names (Uzbek) as published on data.egov.uz.
const (
	xalqFieldName       = "Omonat nomi"
	xalqFieldRate       = "Yillik foiz"
	xalqFieldMinDeposit = "Boshlang'ich badal miqdori"
	xalqFieldConditions = "Boshqa shartlar"
)

// XalqStrategy reads Xalq banki deposits from the open-data endpoint instead
// of crawling xb.uz, whose site requires JS rendering.
type XalqStrategy struct {
	fetcher  helpers.Fetcher
	endpoint string
}

// NewXalqStrategy creates the xb.uz structured-data strategy.
func NewXalqStrategy(fetcher helpers.Fetcher) *XalqStrategy {
	return &XalqStrategy{fetcher: fetcher, endpoint: DefaultXalqEndpoint}
}

// Name returns the strategy name.
func (s *XalqStrategy) Name() string {
	return "xalq-open-data"
}

// CanHandle claims xb.uz and its subdomains.
func (s *XalqStrategy) CanHandle(domain string) bool {
	return strings.HasSuffix(domain, "xb.uz")
}

// Extract fetches the open-data JSON array and keeps USD-context rows with an
// acceptable annual rate, deduplicated by lower-cased name (first seen wins).
func (s *XalqStrategy) Extract(ctx context.Context, inputURL string) ([]DepositRecord, error) {
	resp, err := s.fetcher.Fetch(ctx, s.endpoint)
	if err != nil {
		return nil, err
	}

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(resp.Body), &items); err != nil {
		return nil, errs.NewParse("xb.uz", "unexpected open-data payload", err)
	}

	seen := make(map[string]bool)
	var out []DepositRecord

	for _, item := range items {
		name := strings.TrimSpace(scalarString(item[xalqFieldName]))
		rateRaw := strings.TrimSpace(scalarString(item[xalqFieldRate]))
		minDeposit := strings.TrimSpace(scalarString(item[xalqFieldMinDeposit]))
		conditions := strings.TrimSpace(scalarString(item[xalqFieldConditions]))

		blob := strings.Join([]string{name, rateRaw, minDeposit, conditions}, " ")
		if name == "" || !IsUSDContext(blob) {
			continue
		}

		rate := ParsePercent(rateRaw)
		if rate <= 0 || rate > MaxUSDRate {
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, DepositRecord{
			Bank:      "Xalq banki",
			Site:      "xb.uz",
			Name:      name,
			Rate:      rate,
			Currency:  "USD",
			SourceURL: inputURL,
		})
	}

	return out, nil
}
