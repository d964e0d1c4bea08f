package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"opensky-state-decoder/internal/api"
	"opensky-state-decoder/internal/buffer"
	"opensky-state-decoder/internal/config"
	"opensky-state-decoder/internal/fetcher"
	"opensky-state-decoder/internal/metrics"
	"opensky-state-decoder/internal/processor"
	"opensky-state-decoder/pkg/logger"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	pflag.Parse()

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "opensky-state-decoder: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Level).WithFile(cfg.Logging.FilePath, cfg.Logging.MaxAgeDays)
	if err != nil {
		return err
	}

	m := metrics.NewMetrics()

	buf, err := buffer.New(cfg.Buffer.Type, cfg.Buffer.Size, cfg.Buffer.Window)
	if err != nil {
		return err
	}
	m.SetBufferCapacity(buf.Capacity())

	client := fetcher.NewOpenSkyClient(
		cfg.OpenSky.BaseURL,
		cfg.OpenSky.RequestTimeout,
		cfg.OpenSky.Username,
		cfg.OpenSky.Password,
		log,
		m,
	).WithRateLimiter(processor.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize))

	handlers := api.NewServer(log, m, buf, cfg.Buffer.Type, cfg.Buffer.BatchSize).
		WithDecodeLimiter(processor.NewRateLimiter(10, 20))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	box := cfg.OpenSky.BoundingBox
	log.Info("Polling OpenSky for %s", box)
	go client.PollContinuously(ctx, cfg.OpenSky.PollInterval, &box, handlers.Accept)

	srv := newServer(cfg.Server, handlers, log)
	errc := make(chan error, 1)
	srv.start(errc)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Received %v, shutting down", sig)
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
