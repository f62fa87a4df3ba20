package audit

import (
	"context"
	"encoding/json"
	"os"
)

func (a *implAuditor) LogWebhookRequest(ctx context.Context, input LogInput) {
	if !a.cfg.Enabled {
		return
	}

	now := a.now().UTC()
	metadata := input.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	headers := input.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	line, err := json.Marshal(Entry{
		Timestamp:  now,
		DeliveryID: input.DeliveryID,
		EventType:  input.EventType,
		Headers:    headers,
		Payload:    input.Payload,
		Metadata:   metadata,
	})
	if err != nil {
		a.l.Errorf(ctx, "audit.LogWebhookRequest: marshal entry: %v", err)
		return
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.cfg.Dir, 0o755); err != nil {
		a.l.Errorf(ctx, "audit.LogWebhookRequest: create dir %s: %v", a.cfg.Dir, err)
		return
	}

	path := a.pathFor(now)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		a.l.Errorf(ctx, "audit.LogWebhookRequest: open %s: %v", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		a.l.Errorf(ctx, "audit.LogWebhookRequest: write %s: %v", path, err)
		return
	}

	a.l.Debugf(ctx, "audit.LogWebhookRequest: logged delivery %s to %s", input.DeliveryID, path)
}
