package dispatch

import "context"

// Dispatcher hands validated events to background processing.
//
//go:generate mockery --name Dispatcher
type Dispatcher interface {
	// Dispatch enqueues job without waiting for it to run. An error means the
	// job was not accepted and will not run.
	Dispatch(ctx context.Context, job Job) error
	// Shutdown stops accepting jobs and waits for in-flight jobs until ctx is done.
	Shutdown(ctx context.Context) error
}

// Handler runs one job.
type Handler interface {
	Handle(ctx context.Context, job Job) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job Job) error

func (f HandlerFunc) Handle(ctx context.Context, job Job) error { return f(ctx, job) }
