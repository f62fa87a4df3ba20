package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"quality-agent/pkg/log"
)

const (
	defaultWorkers    = 4
	defaultQueueSize  = 256
	defaultJobTimeout = 300 * time.Second
)

// Pool runs jobs on a fixed set of in-process workers.
type Pool struct {
	cfg     PoolConfig
	handler Handler
	l       log.Logger

	jobs chan Job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewPool starts cfg.Workers workers feeding jobs to handler.
func NewPool(handler Handler, cfg PoolConfig, l log.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = defaultJobTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		cfg:     cfg,
		handler: handler,
		l:       l,
		jobs:    make(chan Job, cfg.QueueSize),
		baseCtx: ctx,
		cancel:  cancel,
	}

	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go p.worker()
	}
	return p
}

// Dispatch never blocks: a full queue is reported as ErrQueueFull.
func (p *Pool) Dispatch(_ context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrStopped
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job Job) {
	ctx := jobContext(p.baseCtx, job)
	if err := Run(ctx, p.handler, job, p.cfg.JobTimeout); err != nil {
		p.l.Errorf(ctx, "dispatch.Pool: background job failed: %v", err)
	}
}

// jobContext attaches the job's delivery, repository and pull request to ctx.
func jobContext(ctx context.Context, job Job) context.Context {
	kv := []any{
		"job_id", job.ID,
		"delivery_id", job.DeliveryID,
		"event_type", job.EventType,
	}
	if repo := job.Event.RepoFullName(); repo != "" {
		kv = append(kv, "repository", repo)
	}
	if pr := job.Event.PullRequest; pr != nil {
		kv = append(kv, "pr_number", pr.Number)
	}
	return log.WithFields(ctx, kv...)
}

// Run executes job with a time limit. A handler that overruns is abandoned
// and ErrJobTimeout is returned. Panics are converted to errors.
func Run(ctx context.Context, h Handler, job Job, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("panic: %v\n%s", r, debug.Stack())
			}
		}()
		result <- h.Handle(ctx, job)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w (%s)", ErrJobTimeout, timeout)
	}
}
