package memory

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"quality-agent/internal/idempotency"
	"quality-agent/internal/idempotency/repository"
)

type implRepository struct {
	records *expirable.LRU[string, idempotency.Record]
}

// New creates an in-process Repository holding up to size records for ttl.
// Records are lost on restart and not shared between replicas.
func New(size int, ttl time.Duration) repository.Repository {
	if size <= 0 {
		size = 100_000
	}
	return &implRepository{
		records: expirable.NewLRU[string, idempotency.Record](size, nil, ttl),
	}
}
