package natskv

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"quality-agent/internal/idempotency"
	repo "quality-agent/internal/idempotency/repository"
)

var validKey = regexp.MustCompile(`^[-/_=.a-zA-Z0-9]+$`)

// key maps a delivery id onto the KV key alphabet. GitHub ids are UUIDs and
// pass through unchanged; anything else is hashed.
func key(deliveryID string) string {
	if validKey.MatchString(deliveryID) && !strings.HasPrefix(deliveryID, ".") && !strings.HasSuffix(deliveryID, ".") {
		return deliveryID
	}
	sum := sha256.Sum256([]byte(deliveryID))
	return "sha256_" + hex.EncodeToString(sum[:])
}

func (r *implRepository) GetRecord(ctx context.Context, deliveryID string) (idempotency.Record, error) {
	k := key(deliveryID)

	if r.l1 != nil {
		if data, ok := r.l1.Get(k); ok {
			if rec, err := decode(data); err == nil {
				return rec, nil
			}
			r.l1.Del(k)
		}
	}

	entry, err := r.kv.Get(ctx, k)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return idempotency.Record{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetRecord"), err)
		return idempotency.Record{}, repo.ErrFailedToGet
	}

	rec, err := decode(entry.Value())
	if err != nil {
		r.l.Warnf(ctx, "%s: corrupt entry for %s: %v", r.dsn("GetRecord"), k, err)
		return idempotency.Record{}, nil
	}

	r.cache(k, entry.Value(), rec)
	return rec, nil
}

func (r *implRepository) PutRecord(ctx context.Context, rec idempotency.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		r.l.Errorf(ctx, "%s: marshal: %v", r.dsn("PutRecord"), err)
		return repo.ErrFailedToPut
	}

	k := key(rec.DeliveryID)
	if _, err := r.kv.Put(ctx, k, data); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("PutRecord"), err)
		return repo.ErrFailedToPut
	}

	r.cache(k, data, rec)
	return nil
}

func (r *implRepository) cache(k string, data []byte, rec idempotency.Record) {
	if r.l1 == nil {
		return
	}
	ttl := rec.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return
	}
	r.l1.SetWithTTL(k, data, 1, ttl)
}

func decode(data []byte) (idempotency.Record, error) {
	var rec idempotency.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return idempotency.Record{}, err
	}
	return rec, nil
}
