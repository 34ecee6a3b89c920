package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverJSONURLs(t *testing.T) {
	html := `<html><body>
	<script>fetch("https://bank.example/api/deposits?currency=usd")</script>
	<a href="/data/rates.json">Rates</a>
	<a href="https://cdn.example/api/feed">External feed</a>
	<a href="/about">About</a>
	</body></html>`
	doc, err := CleanDocument(html)
	require.NoError(t, err)

	// CleanDocument drops scripts, so the raw HTML is scanned separately.
	urls := discoverJSONURLs("https://bank.example/deposits", html, doc, 10)

	assert.Contains(t, urls, "https://bank.example/api/deposits?currency=usd")
	assert.Contains(t, urls, "https://bank.example/data/rates.json")
	for _, u := range urls {
		assert.NotContains(t, u, "cdn.example")
	}
}

func TestDiscoverJSONURLsCapped(t *testing.T) {
	html := `<a href="/api/a">a</a><a href="/api/b">b</a><a href="/api/c">c</a>`
	doc, err := CleanDocument(html)
	require.NoError(t, err)

	urls := discoverJSONURLs("https://bank.example/", html, doc, 2)
	assert.Len(t, urls, 2)
}

func TestExtractFromJSONEndpoints(t *testing.T) {
	page := `<html><body><a href="/api/deposits">data</a></body></html>`
	doc, err := CleanDocument(page)
	require.NoError(t, err)

	f := newFakeFetcher()
	f.addJSON("https://bank.example/api/deposits", `[
		{"name": "Dollar Omonat", "currency": "USD", "percent": "7.5"},
		{"name": "Som Omonat", "currency": "UZS", "percent": "21"},
		{"title": "USD flexible deposit", "rate": 8},
		{"currency": "USD", "percent": "6%"}
	]`)

	records := extractFromJSONEndpoints(context.Background(), f, "https://bank.example/deposits", "Example Bank", page, doc, 10)

	require.Len(t, records, 3)
	assert.Equal(t, "Dollar Omonat", records[0].Name)
	assert.InDelta(t, 0.075, records[0].Rate, 1e-9)
	assert.Equal(t, "USD flexible deposit", records[1].Name)
	assert.InDelta(t, 0.08, records[1].Rate, 1e-9)
	// No name field anywhere: the bank name stands in.
	assert.Equal(t, "Example Bank", records[2].Name)
	for _, r := range records {
		assert.Equal(t, "bank.example", r.Site)
		assert.Equal(t, "USD", r.Currency)
	}
}

func TestExtractFromJSONEndpointsSkipsNonJSON(t *testing.T) {
	page := `<a href="/api/deposits">data</a>`
	doc, err := CleanDocument(page)
	require.NoError(t, err)

	f := newFakeFetcher()
	f.addPage("https://bank.example/api/deposits", "<html>not json, usd 7%</html>")

	records := extractFromJSONEndpoints(context.Background(), f, "https://bank.example/", "Bank", page, doc, 10)
	assert.Empty(t, records)
}

func TestExtractFromJSONEndpointsToleratesFetchFailures(t *testing.T) {
	page := `<a href="/api/bad">bad</a><a href="/api/good">good</a>`
	doc, err := CleanDocument(page)
	require.NoError(t, err)

	f := newFakeFetcher()
	f.fails["https://bank.example/api/bad"] = transientErr("https://bank.example/api/bad")
	f.addJSON("https://bank.example/api/good", `[{"name": "Dollar Deposit", "currency": "USD", "percent": "7%"}]`)

	records := extractFromJSONEndpoints(context.Background(), f, "https://bank.example/", "Bank", page, doc, 10)
	require.Len(t, records, 1)
	assert.Equal(t, "Dollar Deposit", records[0].Name)
}

func TestWalkJSONDepthGuard(t *testing.T) {
	wrap := func(levels int) interface{} {
		var v interface{} = map[string]interface{}{
			"name":     "Deep Deposit",
			"currency": "USD",
			"percent":  "7%",
		}
		for i := 0; i < levels; i++ {
			v = map[string]interface{}{"a": v}
		}
		return v
	}

	var shallow []DepositRecord
	walkJSON(wrap(3), "https://bank.example/api/x", "Bank", &shallow, 0)
	require.Len(t, shallow, 1)

	var deep []DepositRecord
	walkJSON(wrap(maxJSONDepth+5), "https://bank.example/api/x", "Bank", &deep, 0)
	assert.Empty(t, deep)
}

func TestScalarString(t *testing.T) {
	assert.Equal(t, "hello", scalarString("hello"))
	assert.Equal(t, "7.5", scalarString(7.5))
	assert.Equal(t, "", scalarString(true))
	assert.Equal(t, "", scalarString(nil))
	assert.Equal(t, "", scalarString(map[string]interface{}{}))
	assert.Equal(t, "", scalarString([]interface{}{}))
}
