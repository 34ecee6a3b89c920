package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"usdscan/depositworker/helpers"
	"usdscan/depositworker/internal/crawler"
	"usdscan/depositworker/logger"
	errs "usdscan/depositworker/pkg/errors"
	"usdscan/depositworker/services/cache"
	"usdscan/depositworker/services/publisher"
)

// noteMaxLen caps outcome note length.
const noteMaxLen = 180

// Worker runs one batch: every input URL is processed as an independent site
// crawl under a bounded pool. Site crawls share nothing mutable except the
// final result lists, which are merged under a mutex.
type Worker struct {
	fetcher     helpers.Fetcher
	strategies  []crawler.Strategy
	cacheSvc    cache.CacheService
	pub         publisher.Publisher
	blockTTL    time.Duration
	concurrency int
}

// Result is the batch output: the deduplicated, sorted union of records and
// exactly one outcome per input URL, in input order.
type Result struct {
	Records  []crawler.DepositRecord
	Outcomes []crawler.SiteOutcome
}

// NewWorker creates a new batch worker. cacheSvc and pub may be nil.
func NewWorker(
	fetcher helpers.Fetcher,
	strategies []crawler.Strategy,
	cacheSvc cache.CacheService,
	pub publisher.Publisher,
	blockTTL time.Duration,
	concurrency int,
) *Worker {
	return &Worker{
		fetcher:     fetcher,
		strategies:  strategies,
		cacheSvc:    cacheSvc,
		pub:         pub,
		blockTTL:    blockTTL,
		concurrency: concurrency,
	}
}

// Run processes all input URLs and returns the merged batch result. One
// site's failure never aborts the batch; it surfaces as that site's outcome.
func (w *Worker) Run(ctx context.Context, urls []string) Result {
	log := logger.ForWorker()
	start := time.Now()

	outcomes := make([]crawler.SiteOutcome, len(urls))
	var mu sync.Mutex
	var all []crawler.DepositRecord

	g := &errgroup.Group{}
	g.SetLimit(w.concurrency)

	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			outcome, records := w.processSite(ctx, u)
			outcomes[i] = outcome
			mu.Lock()
			all = append(all, records...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if w.pub != nil {
		if err := w.pub.TrimStreams(); err != nil {
			log.Error().Err(err).Msg("Stream trimming failed")
		}
	}

	all = crawler.Dedup(all)
	crawler.SortRecords(all)

	okSites := 0
	for _, o := range outcomes {
		if o.RowsFound > 0 {
			okSites++
		}
	}
	log.Info().
		Int("records", len(all)).
		Int("ok_sites", okSites).
		Int("total_sites", len(urls)).
		Dur("elapsed", time.Since(start)).
		Msg("Batch finished")

	return Result{Records: all, Outcomes: outcomes}
}

// processSite runs the full fetch→diagnose→crawl→extract pipeline for one
// input URL. It always returns an outcome; panics are converted to ERROR so a
// single site can never take down the batch.
func (w *Worker) processSite(ctx context.Context, inputURL string) (outcome crawler.SiteOutcome, records []crawler.DepositRecord) {
	domain := helpers.DomainOf(inputURL)
	log := logger.ForSite(domain)
	outcome = crawler.SiteOutcome{InputURL: inputURL, Domain: domain}

	defer func() {
		if r := recover(); r != nil {
			outcome.Result = crawler.ResultError
			outcome.Note = helpers.Truncate(fmt.Sprintf("panic: %v", r), noteMaxLen)
			outcome.RowsFound = 0
			records = nil
			log.Error().Str("note", outcome.Note).Msg("Site pipeline panicked")
		}
	}()

	if w.cacheSvc != nil {
		if note, err := w.cacheSvc.Get(blockKey(domain)); err == nil {
			outcome.Result = crawler.ResultBlocked
			outcome.Note = string(note)
			log.Warn().Msg("Domain known to be blocked, skipping")
			return outcome, nil
		}
	}

	probe, err := w.fetcher.Fetch(ctx, inputURL)
	if err != nil {
		outcome.Result = crawler.ResultError
		outcome.Note = errs.Note(err, noteMaxLen)
		log.Error().Str("note", outcome.Note).Msg("Root fetch failed")
		return outcome, nil
	}
	outcome.HTTPStatus = probe.StatusCode

	diag := crawler.Diagnose(probe)
	outcome.Signals = diag.SignalString()

	if diag.HardBlock() {
		note := outcome.Signals
		if note == "" {
			note = fmt.Sprintf("status=%d", probe.StatusCode)
		}
		outcome.Result = crawler.ResultBlocked
		outcome.Note = note
		if w.cacheSvc != nil {
			if err := w.cacheSvc.Set(blockKey(domain), []byte(note), w.blockTTL); err != nil {
				log.Debug().Err(err).Msg("Failed to cache block")
			}
		}
		log.Error().Str("note", note).Msg("Site blocked")
		return outcome, nil
	}

	strategy := crawler.Dispatch(w.strategies, domain)
	records, err = strategy.Extract(ctx, inputURL)
	if err != nil {
		outcome.Result = crawler.ResultError
		outcome.Note = errs.Note(err, noteMaxLen)
		outcome.RowsFound = 0
		log.Error().Str("note", outcome.Note).Str("strategy", strategy.Name()).Msg("Extraction failed")
		return outcome, nil
	}

	outcome.RowsFound = len(records)
	if len(records) > 0 {
		outcome.Result = crawler.ResultOK
		w.publish(log, records)
		log.Info().Int("rows", len(records)).Msg("Deposits extracted")
	} else {
		outcome.Result, outcome.Note = crawler.ClassifyEmpty(probe.Body)
		log.Warn().Str("result", string(outcome.Result)).Str("note", outcome.Note).Msg("No deposits found")
	}

	return outcome, records
}

// publish forwards records to the configured publisher, if any.
func (w *Worker) publish(log *logger.Logger, records []crawler.DepositRecord) {
	if w.pub == nil {
		return
	}
	for _, r := range records {
		payload, err := json.Marshal(r)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal record")
			continue
		}
		if err := w.pub.Publish(r.Site, payload); err != nil {
			log.Error().Err(err).Msg("Failed to publish record")
		}
	}
}

func blockKey(domain string) string {
	return "blocked:" + domain
}
