package repository

import (
	"context"

	"quality-agent/internal/idempotency"
)

// Repository stores idempotency records.
type Repository interface {
	// GetRecord returns a zero Record (DeliveryID == "") when nothing is stored.
	GetRecord(ctx context.Context, deliveryID string) (idempotency.Record, error)
	PutRecord(ctx context.Context, rec idempotency.Record) error
}
