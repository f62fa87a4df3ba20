package idempotency

import (
	"context"

	"quality-agent/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// IsDuplicate reports whether deliveryID was already processed.
	// Store failures are logged and reported as "not a duplicate".
	IsDuplicate(ctx context.Context, deliveryID string) bool
	// Record marks deliveryID as processed. Failures are logged, never returned.
	Record(ctx context.Context, deliveryID string, eventType model.EventType)
}
