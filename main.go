package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"usdscan/depositworker/config"
	"usdscan/depositworker/helpers"
	"usdscan/depositworker/internal/crawler"
	"usdscan/depositworker/logger"
	"usdscan/depositworker/services/cache"
	"usdscan/depositworker/services/publisher"
	"usdscan/depositworker/services/report"
	"usdscan/depositworker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	urls, err := helpers.LoadURLs(cfg.InputFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load input URLs")
	}
	if len(urls) == 0 {
		log.Fatal().Str("file", cfg.InputFile).Msg("Input file contains no URLs")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Int("urls", len(urls)).
		Int("concurrency", cfg.Concurrency).
		Msg("Starting batch")

	// Set up context with cancellation on shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// Initialize services
	fetcher := helpers.NewHTTPFetcher(cfg.RequestTimeout, cfg.RequestsPerSec)

	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Block cache enabled")
	}

	var pub publisher.Publisher
	if cfg.RedisPublish {
		redisPub := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		defer redisPub.Close()
		pub = redisPub
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("Publishing enabled")
	}

	strategies := crawler.CreateStrategies(&cfg, fetcher)

	w := worker.NewWorker(fetcher, strategies, cacheSvc, pub, cfg.BlockTTL, cfg.Concurrency)
	result := w.Run(ctx, urls)

	// Write reports
	if err := report.WriteExcel(result.Records, result.Outcomes, cfg.ExcelPath); err != nil {
		log.Error().Err(err).Str("path", cfg.ExcelPath).Msg("Failed to write Excel report")
	} else {
		log.Info().Str("path", cfg.ExcelPath).Msg("Excel report written")
	}
	if err := report.WriteDepositsCSV(result.Records, cfg.DepositsCSV); err != nil {
		log.Error().Err(err).Str("path", cfg.DepositsCSV).Msg("Failed to write deposits CSV")
	}
	if err := report.WriteSitesCSV(result.Outcomes, cfg.SitesCSV); err != nil {
		log.Error().Err(err).Str("path", cfg.SitesCSV).Msg("Failed to write sites CSV")
	}
}
