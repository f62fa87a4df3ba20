package postgre

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"quality-agent/internal/idempotency"
	repo "quality-agent/internal/idempotency/repository"
	"quality-agent/internal/model"
)

// GetRecord returns a zero Record when the delivery is unknown or expired.
func (r *implRepository) GetRecord(ctx context.Context, deliveryID string) (idempotency.Record, error) {
	var (
		rec       idempotency.Record
		eventType string
	)
	err := r.db.QueryRow(ctx, getRecordQuery, deliveryID).Scan(
		&rec.DeliveryID, &eventType, &rec.ProcessedAt, &rec.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return idempotency.Record{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetRecord"), err)
		return idempotency.Record{}, repo.ErrFailedToGet
	}
	rec.EventType = model.EventType(eventType)
	return rec, nil
}

func (r *implRepository) PutRecord(ctx context.Context, rec idempotency.Record) error {
	_, err := r.db.Exec(ctx, putRecordQuery,
		rec.DeliveryID, string(rec.EventType), rec.ProcessedAt, rec.ExpiresAt,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("PutRecord"), err)
		return repo.ErrFailedToPut
	}
	return nil
}

func (r *implRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, purgeExpiredQuery)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("PurgeExpired"), err)
		return 0, repo.ErrFailedToDelete
	}
	return tag.RowsAffected(), nil
}
