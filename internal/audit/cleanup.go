package audit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (a *implAuditor) CleanupOldLogs(ctx context.Context) int {
	if !a.cfg.Enabled {
		return 0
	}

	now := a.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, 0, -a.cfg.RetentionDays)

	deleted := 0
	for _, path := range a.ListLogFiles() {
		name := filepath.Base(path)
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)

		fileDate, err := time.ParseInLocation(dateLayout, datePart, time.UTC)
		if err != nil {
			a.l.Warnf(ctx, "audit.CleanupOldLogs: skipping %s: %v", name, err)
			continue
		}
		if !fileDate.Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			a.l.Errorf(ctx, "audit.CleanupOldLogs: delete %s: %v", path, err)
			continue
		}
		deleted++
		a.l.Infof(ctx, "audit.CleanupOldLogs: deleted %s", name)
	}

	if deleted > 0 {
		a.l.Infof(ctx, "audit.CleanupOldLogs: removed %d files older than %d days", deleted, a.cfg.RetentionDays)
	}
	return deleted
}

func (a *implAuditor) RunCleanup(ctx context.Context, interval time.Duration) {
	if !a.cfg.Enabled {
		return
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	a.CleanupOldLogs(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.CleanupOldLogs(ctx)
		}
	}
}
