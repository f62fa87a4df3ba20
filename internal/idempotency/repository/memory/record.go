package memory

import (
	"context"

	"quality-agent/internal/idempotency"
)

func (r *implRepository) GetRecord(_ context.Context, deliveryID string) (idempotency.Record, error) {
	rec, ok := r.records.Get(deliveryID)
	if !ok {
		return idempotency.Record{}, nil
	}
	return rec, nil
}

func (r *implRepository) PutRecord(_ context.Context, rec idempotency.Record) error {
	r.records.Add(rec.DeliveryID, rec)
	return nil
}
