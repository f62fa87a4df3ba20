package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

func (a *implAuditor) ReadLogs(ctx context.Context, date time.Time) []Entry {
	entries := []Entry{}
	if !a.cfg.Enabled {
		return entries
	}

	if date.IsZero() {
		date = a.now()
	}
	path := a.pathFor(date)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return entries
	}
	if err != nil {
		a.l.Errorf(ctx, "audit.ReadLogs: open %s: %v", path, err)
		return entries
	}
	defer f.Close()

	// Lines can be as large as a webhook body, so no Scanner token limit.
	r := bufio.NewReader(f)
	for lineNo := 1; ; lineNo++ {
		line, err := r.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			var e Entry
			if jerr := json.Unmarshal(trimmed, &e); jerr != nil {
				a.l.Warnf(ctx, "audit.ReadLogs: skipping malformed line %d in %s: %v", lineNo, path, jerr)
			} else {
				entries = append(entries, e)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				a.l.Errorf(ctx, "audit.ReadLogs: read %s: %v", path, err)
			}
			break
		}
	}

	return entries
}

func (a *implAuditor) ListLogFiles() []string {
	if !a.cfg.Enabled {
		return []string{}
	}
	files, err := filepath.Glob(filepath.Join(a.cfg.Dir, filePrefix+"*"+fileSuffix))
	if err != nil || len(files) == 0 {
		return []string{}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files
}
