package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	errs "usdscan/depositworker/pkg/errors"
)

// HTTP client and header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	referers = []string{
		"https://www.google.com/",
		"https://yandex.ru/",
	}
)

// Response is the normalized fetch result: status, headers, UTF-8 body and the
// final URL after redirects. Client errors and the blockable statuses (401,
// 403, 429, 503) are returned as values so the block diagnoser can inspect
// them; any other server error that survives the retry budget surfaces as a
// transient fetch error instead.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
	FinalURL   string
}

// CookieBlob joins all Set-Cookie headers into one string for cookie-name scans.
func (r *Response) CookieBlob() string {
	if r.Header == nil {
		return ""
	}
	return strings.Join(r.Header.Values("Set-Cookie"), "; ")
}

// Fetcher retrieves pages on behalf of a crawl.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// HTTPFetcher is the production Fetcher: a shared resty client with browser-like
// headers, a Cloudflare-bypass transport, a client-side rate limiter and a fixed
// retry budget (3 attempts, exponential backoff 1s..8s) for transient failures.
type HTTPFetcher struct {
	client *resty.Client
	rnd    *mathrand.Rand
}

// NewHTTPFetcher creates the shared fetch client.
func NewHTTPFetcher(timeout time.Duration, requestsPerSec float64) *HTTPFetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(8 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		// 503 is a hard-block status: a terminal classification, never retried.
		code := r.StatusCode()
		return code >= 500 && code != http.StatusServiceUnavailable
	})

	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	if requestsPerSec > 0 {
		burst := int(requestsPerSec)
		if burst < 1 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(requestsPerSec), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	return &HTTPFetcher{
		client: client,
		rnd:    mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// Fetch performs a GET with browser-like headers and returns the normalized
// response. Transport failures and persistent server errors surface as a
// typed transient fetch error once the retry budget is spent.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgents[f.rnd.Intn(len(userAgents))]).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "uz,ru;q=0.9,en;q=0.8").
		SetHeader("Referer", referers[f.rnd.Intn(len(referers))]).
		SetHeader("Connection", "keep-alive").
		Get(url)
	if err != nil {
		return nil, errs.NewFetch(DomainOf(url), "request failed after retries", err)
	}

	// 503 is the hard-block status and belongs to the diagnoser; every other
	// 5xx that outlived the retry budget is a transient failure.
	if code := resp.StatusCode(); code >= 500 && code != http.StatusServiceUnavailable {
		return nil, errs.NewFetch(DomainOf(url), fmt.Sprintf("status %d after retries", code), nil)
	}

	finalURL := url
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       decodeToUTF8(resp.Body(), resp.Header().Get("Content-Type")),
		FinalURL:   finalURL,
	}, nil
}

// decodeToUTF8 converts a response body to UTF-8 based on the Content-Type
// header and the body content itself.
func decodeToUTF8(body []byte, contentType string) string {
	if len(body) == 0 {
		return ""
	}

	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	if strings.EqualFold(name, "utf-8") {
		return string(body)
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	converted, err := io.ReadAll(utf8Reader)
	if err != nil {
		return string(body)
	}
	return string(converted)
}
