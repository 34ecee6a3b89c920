package crawler

import (
	"context"
	"net/http"
	"sync"

	"usdscan/depositworker/helpers"
	errs "usdscan/depositworker/pkg/errors"
)

// fakeFetcher serves canned responses by URL for strategy tests.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]*helpers.Response
	fails map[string]error
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]*helpers.Response),
		fails: make(map[string]error),
	}
}

func (f *fakeFetcher) addPage(url, body string) {
	f.pages[url] = &helpers.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       body,
		FinalURL:   url,
	}
}

func (f *fakeFetcher) addJSON(url, body string) {
	f.pages[url] = &helpers.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
		FinalURL:   url,
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*helpers.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if err, ok := f.fails[url]; ok {
		return nil, err
	}
	if resp, ok := f.pages[url]; ok {
		return resp, nil
	}
	return &helpers.Response{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{},
		FinalURL:   url,
	}, nil
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

var _ helpers.Fetcher = (*fakeFetcher)(nil)

// transientErr builds the typed error the real fetcher returns on transport
// failure, for parity in tests.
func transientErr(url string) error {
	return errs.NewFetch(helpers.DomainOf(url), "request failed after retries", nil)
}
