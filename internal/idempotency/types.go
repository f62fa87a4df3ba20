package idempotency

import (
	"time"

	"quality-agent/internal/model"
)

// Record marks one delivery as processed.
type Record struct {
	DeliveryID  string          `json:"delivery_id"`
	EventType   model.EventType `json:"event_type"`
	ProcessedAt time.Time       `json:"processed_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// Expired reports whether the record no longer suppresses redeliveries.
func (r Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Config controls deduplication.
type Config struct {
	Enabled bool
	TTL     time.Duration // how long a processed delivery is remembered
	Timeout time.Duration // upper bound for a single store call
}
