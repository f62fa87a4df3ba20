package postgre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"quality-agent/internal/idempotency/repository"
	"quality-agent/pkg/log"
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository adds housekeeping on top of repository.Repository.
type Repository interface {
	repository.Repository
	// PurgeExpired deletes expired records and returns how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}

type implRepository struct {
	db DB
	l  log.Logger
}

// New creates a PostgreSQL-backed Repository. The webhook_deliveries table is
// created by the migrations in config/postgre.
func New(db DB, l log.Logger) Repository {
	if db == nil {
		panic("idempotency/repository/postgre: db is required")
	}
	return &implRepository{db: db, l: l}
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("idempotency/repository/postgre.%s", method)
}
