package audit

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"quality-agent/pkg/log"
)

const (
	defaultDir           = "logs/webhooks"
	defaultRetentionDays = 30
)

// Option customizes an Auditor.
type Option func(*implAuditor)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *implAuditor) { a.now = now }
}

type implAuditor struct {
	cfg Config
	l   log.Logger
	now func() time.Time

	// serializes appends so concurrent entries never interleave
	mu sync.Mutex
}

// New creates an Auditor writing daily JSONL files under cfg.Dir.
func New(cfg Config, l log.Logger, opts ...Option) Auditor {
	if cfg.Dir == "" {
		cfg.Dir = defaultDir
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = defaultRetentionDays
	}

	a := &implAuditor{cfg: cfg, l: l, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *implAuditor) pathFor(date time.Time) string {
	return filepath.Join(a.cfg.Dir, fmt.Sprintf("%s%s%s", filePrefix, date.UTC().Format(dateLayout), fileSuffix))
}
