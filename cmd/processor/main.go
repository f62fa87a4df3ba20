package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"quality-agent/config"
	natsConfig "quality-agent/config/nats"
	"quality-agent/internal/analysis"
	"quality-agent/internal/dispatch"
	"quality-agent/internal/metrics"
	"quality-agent/pkg/log"
)

// main is the entry point for the analysis processor.
// It consumes jobs published by cmd/api in queue mode and runs the analysis pipeline.
//
// Pattern:
//  1. Initialize infra (same as cmd/api/main.go)
//  2. Create the processor
//  3. Create the durable JetStream consumer, wire the processor
//  4. Run & graceful shutdown
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting analysis processor...")

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "Processor exited with error: ", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Processor stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	// Infrastructure
	conn, err := natsConfig.Connect(cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	queue, err := dispatch.NewNATSQueue(ctx, conn.JS, cfg.NATS.Stream, logger)
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NewNop()
	var promMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		promMetrics = metrics.New()
		recorder = promMetrics
	}

	// Processor
	processor := analysis.New(analysis.NewLogPipeline(logger), recorder, logger)

	// Consumer
	stopConsume, err := queue.Consume(ctx, dispatch.ConsumerConfig{
		Durable:    cfg.NATS.Consumer,
		MaxDeliver: cfg.NATS.MaxDeliver,
		JobTimeout: cfg.Analysis.Timeout,
	}, processor)
	if err != nil {
		return err
	}
	defer stopConsume()
	logger.Infof(ctx, "Consuming %s.> as %s", dispatch.SubjectPrefix, cfg.NATS.Consumer)

	g, gctx := errgroup.WithContext(ctx)
	if promMetrics != nil {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.HTTPServer.Port, promMetrics.Handler(), logger)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	return g.Wait()
}

// serveMetrics exposes /metrics until ctx is cancelled.
func serveMetrics(ctx context.Context, port int, h http.Handler, logger log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "Metrics listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
