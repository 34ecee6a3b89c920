package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usdscan/depositworker/helpers"
	"usdscan/depositworker/internal/crawler"
	"usdscan/depositworker/services/worker"
)

const bankHomeHTML = `<!DOCTYPE html>
<html>
<head><title>Example Bank</title></head>
<body>
	<h1>Example Bank</h1>
	<nav>
		<a href="/deposits">Deposits</a>
		<a href="/careers">Careers</a>
	</nav>
	<p>Welcome to Example Bank.</p>
</body>
</html>`

const bankDepositsHTML = `<!DOCTYPE html>
<html>
<head><title>Deposits - Example Bank</title></head>
<body>
	<h1>Example Bank</h1>
	<table>
		<tr><th>Currency</th><th>Deposit</th><th>Rate</th></tr>
		<tr><td>USD</td><td>Premium Savings</td><td>7.2%</td></tr>
		<tr><td>USD</td><td>Flexible Dollar</td><td>5.5%</td></tr>
		<tr><td>UZS</td><td>Standard</td><td>20%</td></tr>
	</table>
</body>
</html>`

// TestPipelineIntegration runs the whole batch pipeline against local HTTP
// servers: a crawlable bank site and a hard-blocked one.
func TestPipelineIntegration(t *testing.T) {
	bank := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(bankHomeHTML))
		case "/deposits":
			_, _ = w.Write([]byte(bankDepositsHTML))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer bank.Close()

	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("access denied"))
	}))
	defer blocked.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	fetcher := helpers.NewHTTPFetcher(10*time.Second, 0)
	strategies := []crawler.Strategy{crawler.NewGenericStrategy(fetcher, 20, 200, 40)}
	w := worker.NewWorker(fetcher, strategies, nil, nil, time.Hour, 2)

	res := w.Run(context.Background(), []string{bank.URL + "/", blocked.URL + "/", broken.URL + "/"})

	require.Len(t, res.Outcomes, 3)

	ok := res.Outcomes[0]
	assert.Equal(t, crawler.ResultOK, ok.Result)
	assert.Equal(t, http.StatusOK, ok.HTTPStatus)
	assert.Equal(t, 2, ok.RowsFound)

	blk := res.Outcomes[1]
	assert.Equal(t, crawler.ResultBlocked, blk.Result)
	assert.Equal(t, http.StatusForbidden, blk.HTTPStatus)
	assert.Contains(t, blk.Note, "status=403")

	// A 5xx that survives the retry budget is a fetch failure, never a
	// zero-row classification of the error page.
	brk := res.Outcomes[2]
	assert.Equal(t, crawler.ResultError, brk.Result)
	assert.Equal(t, 0, brk.RowsFound)
	assert.Contains(t, brk.Note, "status 500")

	require.Len(t, res.Records, 2)
	// Sorted by bank, then rate descending.
	assert.Equal(t, "Premium Savings", res.Records[0].Name)
	assert.InDelta(t, 0.072, res.Records[0].Rate, 1e-9)
	assert.Equal(t, "Flexible Dollar", res.Records[1].Name)
	assert.InDelta(t, 0.055, res.Records[1].Rate, 1e-9)
	for _, rec := range res.Records {
		assert.Equal(t, "Example Bank", rec.Bank)
		assert.Equal(t, "USD", rec.Currency)
		assert.Equal(t, bank.URL+"/deposits", rec.SourceURL)
	}
}
