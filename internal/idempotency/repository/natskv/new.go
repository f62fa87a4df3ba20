package natskv

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/nats-io/nats.go/jetstream"

	"quality-agent/internal/idempotency/repository"
	"quality-agent/pkg/log"
)

type implRepository struct {
	kv  jetstream.KeyValue
	l1  *ristretto.Cache[string, []byte]
	l   log.Logger
	now func() time.Time
}

// New creates a Repository backed by a JetStream KV bucket. Record expiry is
// enforced by the bucket TTL and by the record's own ExpiresAt.
// l1 is an optional in-process cache for records already seen.
func New(kv jetstream.KeyValue, l1 *ristretto.Cache[string, []byte], l log.Logger) repository.Repository {
	if kv == nil {
		panic("idempotency/repository/natskv: kv is required")
	}
	return &implRepository{kv: kv, l1: l1, l: l, now: time.Now}
}

// NewL1Cache builds the in-process cache placed in front of the KV bucket.
func NewL1Cache(maxItems int64) (*ristretto.Cache[string, []byte], error) {
	if maxItems <= 0 {
		maxItems = 100_000
	}
	return ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("idempotency/repository/natskv.%s", method)
}
