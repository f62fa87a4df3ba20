package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"quality-agent/config"
	natsConfig "quality-agent/config/nats"
	_ "quality-agent/docs" // Swagger docs
	"quality-agent/internal/analysis"
	"quality-agent/internal/audit"
	"quality-agent/internal/dispatch"
	"quality-agent/internal/httpserver"
	"quality-agent/internal/idempotency"
	idemUC "quality-agent/internal/idempotency/usecase"
	"quality-agent/internal/metrics"
	"quality-agent/internal/model"
	"quality-agent/internal/payload"
	"quality-agent/internal/webhook"
	webhookHTTP "quality-agent/internal/webhook/delivery/http"
	webhookUC "quality-agent/internal/webhook/usecase"
	"quality-agent/pkg/log"
)

const shutdownTimeout = 30 * time.Second

// @title       Quality Agent API
// @description GitHub webhook ingestion: signature verification, deduplication, audit and dispatch of pull request and push events.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Quality Agent...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "Server exited with error: ", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	readiness := map[string]httpserver.ReadinessCheck{}

	// 3. Metrics
	var recorder metrics.Recorder = metrics.NewNop()
	var promMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		promMetrics = metrics.New()
		recorder = promMetrics
	}

	// 4. NATS (queue dispatch and/or KV idempotency)
	var natsConn *natsConfig.Conn
	if cfg.UsesNATS() {
		conn, err := natsConfig.Connect(cfg.NATS.URL)
		if err != nil {
			return err
		}
		defer conn.Close()
		natsConn = conn
		readiness["nats"] = natsReady(conn)
		logger.Infof(ctx, "NATS connected: %s", cfg.NATS.URL)
	}

	// 5. Idempotency
	store, err := newDedupStore(ctx, cfg, natsConn, logger)
	if err != nil {
		return err
	}
	defer store.close()
	if store.ready != nil {
		readiness[cfg.Idempotency.Backend] = store.ready
	}
	dedup := idemUC.New(store.repo, idempotency.Config{
		Enabled: cfg.Idempotency.Enabled,
		TTL:     cfg.Idempotency.TTL,
		Timeout: cfg.Idempotency.Timeout,
	}, logger)

	// 6. Dispatch
	var dispatcher dispatch.Dispatcher
	switch cfg.Dispatch.Mode {
	case config.DispatchModeQueue:
		queue, err := dispatch.NewNATSQueue(ctx, natsConn.JS, cfg.NATS.Stream, logger)
		if err != nil {
			return err
		}
		dispatcher = queue
		logger.Infof(ctx, "Dispatch mode: queue (stream %s)", cfg.NATS.Stream)
	default:
		processor := analysis.New(analysis.NewLogPipeline(logger), recorder, logger)
		dispatcher = dispatch.NewPool(processor, dispatch.PoolConfig{
			Workers:    cfg.Dispatch.Workers,
			QueueSize:  cfg.Dispatch.QueueSize,
			JobTimeout: cfg.Analysis.Timeout,
		}, logger)
		logger.Infof(ctx, "Dispatch mode: background (%d workers)", cfg.Dispatch.Workers)
	}

	// 7. Webhook domain
	auditor := audit.New(audit.Config{
		Enabled:       cfg.Audit.Enabled,
		Dir:           cfg.Audit.Dir,
		RetentionDays: cfg.Audit.RetentionDays,
	}, logger)

	security := webhook.NewSecurityValidator(webhook.SecurityConfig{
		Secret:          cfg.Webhook.Secret,
		AllowedIPs:      cfg.Webhook.AllowedIPs,
		RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
	})

	uc := webhookUC.New(security, dedup, auditor, payload.New(), dispatcher, recorder, logger)
	webhookHandler := webhookHTTP.New(logger, uc, webhookHTTP.Config{
		MaxBodyBytes: cfg.Webhook.MaxBodyBytes,
		Debug:        cfg.Environment.Name != string(model.EnvironmentProduction),
	})

	// 8. HTTP Server
	srvCfg := httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
		Readiness:      readiness,
	}
	if promMetrics != nil {
		srvCfg.MetricsHandler = promMetrics.Handler()
	}
	httpServer, err := httpserver.New(logger, srvCfg)
	if err != nil {
		return fmt.Errorf("initialize HTTP server: %w", err)
	}

	// 9. Run
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(gctx)
	})
	g.Go(func() error {
		auditor.RunCleanup(gctx, cfg.Audit.CleanupInterval)
		return nil
	})
	if store.housekeeping != nil {
		g.Go(func() error {
			store.housekeeping(gctx)
			return nil
		})
	}

	runErr := g.Wait()

	// 10. Drain in-flight jobs
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Warnf(shutdownCtx, "Dispatcher shutdown: %v", err)
	}

	return runErr
}
