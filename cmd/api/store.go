package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"quality-agent/config"
	natsConfig "quality-agent/config/nats"
	pgConfig "quality-agent/config/postgre"
	"quality-agent/internal/httpserver"
	"quality-agent/internal/idempotency/repository"
	"quality-agent/internal/idempotency/repository/memory"
	"quality-agent/internal/idempotency/repository/natskv"
	"quality-agent/internal/idempotency/repository/postgre"
	"quality-agent/pkg/log"
)

const purgeInterval = time.Hour

// dedupStore is the idempotency repository picked by idempotency.backend,
// with the lifecycle hooks its backend needs.
type dedupStore struct {
	repo         repository.Repository
	ready        httpserver.ReadinessCheck
	housekeeping func(ctx context.Context)
	close        func()
}

func newDedupStore(ctx context.Context, cfg *config.Config, conn *natsConfig.Conn, l log.Logger) (dedupStore, error) {
	store := dedupStore{close: func() {}}
	if !cfg.Idempotency.Enabled {
		l.Warn(ctx, "Idempotency disabled: redelivered webhooks will be processed again")
		return store, nil
	}

	switch cfg.Idempotency.Backend {
	case config.IdempotencyBackendNATS:
		kv, err := conn.KeyValue(ctx, cfg.NATS.KVBucket, cfg.Idempotency.TTL)
		if err != nil {
			return store, err
		}
		l1, err := natskv.NewL1Cache(int64(cfg.Idempotency.MemorySize))
		if err != nil {
			return store, fmt.Errorf("idempotency l1 cache: %w", err)
		}
		store.repo = natskv.New(kv, l1, l)
		store.close = l1.Close

	case config.IdempotencyBackendPostgre:
		if err := pgConfig.Migrate(ctx, cfg.Postgres.DSN); err != nil {
			return store, err
		}
		pool, err := pgConfig.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return store, fmt.Errorf("connect postgres: %w", err)
		}
		repo := postgre.New(pool, l)
		store.repo = repo
		store.ready = pool.Ping
		store.close = pool.Close
		store.housekeeping = func(ctx context.Context) { purgeLoop(ctx, repo, l) }

	default:
		store.repo = memory.New(cfg.Idempotency.MemorySize, cfg.Idempotency.TTL)
	}

	l.Infof(ctx, "Idempotency backend: %s (ttl %s)", cfg.Idempotency.Backend, cfg.Idempotency.TTL)
	return store, nil
}

func purgeLoop(ctx context.Context, repo postgre.Repository, l log.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				l.Warnf(ctx, "Purge expired deliveries: %v", err)
				continue
			}
			if n > 0 {
				l.Infof(ctx, "Purged %d expired delivery records", n)
			}
		}
	}
}

func natsReady(conn *natsConfig.Conn) httpserver.ReadinessCheck {
	return func(context.Context) error {
		if status := conn.NC.Status(); status != nats.CONNECTED {
			return errors.New("nats connection " + status.String())
		}
		return nil
	}
}
