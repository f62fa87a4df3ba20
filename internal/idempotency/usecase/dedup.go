package usecase

import (
	"context"

	"quality-agent/internal/idempotency"
	"quality-agent/internal/model"
)

func (uc *implUseCase) IsDuplicate(ctx context.Context, deliveryID string) bool {
	if !uc.cfg.Enabled || deliveryID == "" {
		return false
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()

	rec, err := uc.repo.GetRecord(callCtx, deliveryID)
	if err != nil {
		uc.l.Warnf(ctx, "idempotency.usecase.IsDuplicate: check failed, treating delivery as new: %v", err)
		return false
	}
	if rec.DeliveryID == "" {
		return false
	}
	return !rec.Expired(uc.now())
}

func (uc *implUseCase) Record(ctx context.Context, deliveryID string, eventType model.EventType) {
	if !uc.cfg.Enabled || deliveryID == "" {
		return
	}

	now := uc.now().UTC()
	rec := idempotency.Record{
		DeliveryID:  deliveryID,
		EventType:   eventType,
		ProcessedAt: now,
		ExpiresAt:   now.Add(uc.cfg.TTL),
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()

	if err := uc.repo.PutRecord(callCtx, rec); err != nil {
		uc.l.Warnf(ctx, "idempotency.usecase.Record: failed to record delivery: %v", err)
	}
}
