package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quality-agent/internal/audit"
	"quality-agent/internal/model"
	"quality-agent/internal/webhook"
	"quality-agent/pkg/log"
)

const (
	outcomeDuplicate      = "duplicate"
	outcomeInvalidJSON    = "invalid_json"
	outcomeInvalidPayload = "invalid_payload"
	outcomeDispatchFailed = "dispatch_failed"
)

// Ingest runs one delivery through the pipeline. Steps after a rejection are
// skipped; in particular an unverified body is never audited, recorded or
// dispatched.
func (uc *implUseCase) Ingest(ctx context.Context, d model.WebhookDelivery) (webhook.Result, error) {
	ctx = log.WithFields(ctx, "delivery_id", d.DeliveryID, "event_type", d.EventType)

	if err := uc.security.ValidateGitHubSignature(d.RawBody, d.Signature); err != nil {
		uc.l.Warnf(ctx, "webhook.usecase.Ingest: rejected delivery from %s: %v", d.RemoteAddr, err)
		return webhook.Result{}, err
	}
	if err := uc.security.ValidateIPAddress(d.RemoteAddr); err != nil {
		uc.l.Warnf(ctx, "webhook.usecase.Ingest: %v", err)
		return webhook.Result{}, err
	}
	if err := uc.security.CheckRateLimit(d.RemoteAddr); err != nil {
		uc.l.Warnf(ctx, "webhook.usecase.Ingest: %v", err)
		return webhook.Result{}, err
	}

	if d.DeliveryID != "" {
		if _, busy := uc.inflight.LoadOrStore(d.DeliveryID, struct{}{}); busy {
			return uc.duplicate(ctx, d), nil
		}
		defer uc.inflight.Delete(d.DeliveryID)
	}
	if uc.dedup.IsDuplicate(ctx, d.DeliveryID) {
		return uc.duplicate(ctx, d), nil
	}

	if !json.Valid(d.RawBody) {
		uc.l.Warnf(ctx, "webhook.usecase.Ingest: body is not valid JSON")
		uc.metrics.WebhookReceived(string(d.EventType), outcomeInvalidJSON)
		return webhook.Result{}, webhook.ErrInvalidJSON
	}

	// Audited before schema validation so rejected payloads can be inspected.
	uc.auditor.LogWebhookRequest(ctx, audit.LogInput{
		DeliveryID: d.DeliveryID,
		EventType:  string(d.EventType),
		Headers:    d.Headers,
		Payload:    json.RawMessage(d.RawBody),
		Metadata:   uc.auditMetadata(d),
	})

	var (
		result webhook.Result
		err    error
	)
	if !d.EventType.IsSupported() {
		result = webhook.Result{
			Outcome:    webhook.OutcomeIgnored,
			Reason:     webhook.ReasonUnsupportedEvent,
			Message:    fmt.Sprintf("Event type '%s' is not handled", d.EventType),
			EventType:  d.EventType,
			DeliveryID: d.DeliveryID,
		}
		uc.l.Infof(ctx, "webhook.usecase.Ingest: ignoring unsupported event type")
	} else {
		event, verr := uc.validator.Validate(d.EventType, d.RawBody)
		if verr != nil {
			uc.l.Warnf(ctx, "webhook.usecase.Ingest: payload rejected: %v", verr)
			uc.metrics.WebhookReceived(string(d.EventType), outcomeInvalidPayload)
			return webhook.Result{}, fmt.Errorf("%w: %w", webhook.ErrInvalidPayload, verr)
		}

		result, err = uc.route(ctx, d, event)
		if err != nil {
			uc.metrics.WebhookReceived(string(d.EventType), outcomeDispatchFailed)
			return webhook.Result{}, err
		}
	}

	uc.dedup.Record(ctx, d.DeliveryID, d.EventType)
	uc.metrics.WebhookReceived(string(d.EventType), string(result.Outcome))
	return result, nil
}

func (uc *implUseCase) duplicate(ctx context.Context, d model.WebhookDelivery) webhook.Result {
	uc.l.Infof(ctx, "webhook.usecase.Ingest: duplicate delivery ignored")
	uc.metrics.WebhookReceived(string(d.EventType), outcomeDuplicate)
	return webhook.Result{
		Outcome:    webhook.OutcomeIgnored,
		Reason:     webhook.ReasonDuplicate,
		Message:    fmt.Sprintf("Delivery '%s' was already processed", d.DeliveryID),
		EventType:  d.EventType,
		DeliveryID: d.DeliveryID,
	}
}

// auditSummary is the subset of a payload copied into audit metadata.
// Decoding is lenient: fields of the wrong type are simply left out.
type auditSummary struct {
	Action     string `json:"action"`
	Number     int    `json:"number"`
	Ref        string `json:"ref"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

func (uc *implUseCase) auditMetadata(d model.WebhookDelivery) map[string]any {
	receivedAt := d.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = uc.now()
	}
	meta := map[string]any{
		"remote_addr":  d.RemoteAddr,
		"user_agent":   d.UserAgent,
		"received_at":  receivedAt.UTC().Format(time.RFC3339Nano),
		"payload_size": len(d.RawBody),
	}

	var sum auditSummary
	_ = json.Unmarshal(d.RawBody, &sum)
	if sum.Action != "" {
		meta["action"] = sum.Action
	}
	if sum.Number > 0 {
		meta["pr_number"] = sum.Number
	}
	if sum.Repository.FullName != "" {
		meta["repository"] = sum.Repository.FullName
	}
	if sum.Ref != "" {
		meta["ref"] = sum.Ref
	}
	return meta
}
