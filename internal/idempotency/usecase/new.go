package usecase

import (
	"time"

	"quality-agent/internal/idempotency"
	"quality-agent/internal/idempotency/repository"
	"quality-agent/pkg/log"
)

const (
	defaultTTL     = 7 * 24 * time.Hour
	defaultTimeout = 500 * time.Millisecond
)

// implUseCase is the private implementation of idempotency.UseCase.
type implUseCase struct {
	repo repository.Repository
	cfg  idempotency.Config
	l    log.Logger
	now  func() time.Time
}

// New creates an idempotency.UseCase. A nil repo disables deduplication.
func New(repo repository.Repository, cfg idempotency.Config, l log.Logger) idempotency.UseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if repo == nil {
		cfg.Enabled = false
	}
	return &implUseCase{repo: repo, cfg: cfg, l: l, now: time.Now}
}
