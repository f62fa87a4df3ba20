package usecase

import (
	"sync"
	"time"

	"quality-agent/internal/audit"
	"quality-agent/internal/dispatch"
	"quality-agent/internal/idempotency"
	"quality-agent/internal/metrics"
	"quality-agent/internal/model"
	"quality-agent/internal/webhook"
	"quality-agent/pkg/log"
)

// PayloadValidator turns raw bodies into typed events (see internal/payload).
type PayloadValidator interface {
	Validate(eventType model.EventType, raw []byte) (model.Event, error)
}

// implUseCase is the private implementation of webhook.UseCase.
type implUseCase struct {
	security   *webhook.SecurityValidator
	dedup      idempotency.UseCase
	auditor    audit.Auditor
	validator  PayloadValidator
	dispatcher dispatch.Dispatcher
	metrics    metrics.Recorder
	l          log.Logger
	now        func() time.Time

	// delivery ids currently between the duplicate check and Record
	inflight sync.Map
}

// New creates the webhook ingestion UseCase.
func New(
	security *webhook.SecurityValidator,
	dedup idempotency.UseCase,
	auditor audit.Auditor,
	validator PayloadValidator,
	dispatcher dispatch.Dispatcher,
	recorder metrics.Recorder,
	l log.Logger,
) webhook.UseCase {
	if recorder == nil {
		recorder = metrics.NewNop()
	}
	return &implUseCase{
		security:   security,
		dedup:      dedup,
		auditor:    auditor,
		validator:  validator,
		dispatcher: dispatcher,
		metrics:    recorder,
		l:          l,
		now:        time.Now,
	}
}
