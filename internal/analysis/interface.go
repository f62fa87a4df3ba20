package analysis

import (
	"context"

	"quality-agent/internal/dispatch"
)

// Pipeline runs the multi-stage PR analysis (code changes, coverage gaps,
// test plan). Implementations live outside this service.
type Pipeline interface {
	Analyze(ctx context.Context, req Request) (Report, error)
}

// Processor is the background job handler shared by the worker pool and the
// queue consumer.
type Processor interface {
	dispatch.Handler
}
