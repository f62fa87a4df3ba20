package audit

import (
	"context"
	"time"
)

//go:generate mockery --name Auditor
type Auditor interface {
	// LogWebhookRequest appends one entry to today's file. Failures are logged
	// and never reach the caller.
	LogWebhookRequest(ctx context.Context, input LogInput)
	// ReadLogs returns the entries written on date (UTC), or today for a zero date.
	// Malformed lines are skipped.
	ReadLogs(ctx context.Context, date time.Time) []Entry
	// ListLogFiles returns audit file paths, newest first.
	ListLogFiles() []string
	// CleanupOldLogs deletes files older than the retention window and
	// returns how many were removed.
	CleanupOldLogs(ctx context.Context) int
	// RunCleanup calls CleanupOldLogs every interval until ctx is done.
	RunCleanup(ctx context.Context, interval time.Duration)
}
