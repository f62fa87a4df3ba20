package webhook

import (
	"context"

	"quality-agent/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Ingest runs a delivery through verification, deduplication, auditing,
	// validation and routing.
	Ingest(ctx context.Context, delivery model.WebhookDelivery) (Result, error)
}
