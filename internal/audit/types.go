package audit

import (
	"encoding/json"
	"time"
)

const (
	filePrefix = "webhooks-"
	fileSuffix = ".jsonl"
	dateLayout = "2006-01-02"
)

// Config controls the audit trail.
type Config struct {
	Enabled       bool
	Dir           string
	RetentionDays int
}

// LogInput is one delivery to record.
type LogInput struct {
	DeliveryID string
	EventType  string
	Headers    map[string]string
	Payload    json.RawMessage
	Metadata   map[string]any
}

// Entry is one line of an audit file.
type Entry struct {
	Timestamp  time.Time         `json:"timestamp"`
	DeliveryID string            `json:"delivery_id"`
	EventType  string            `json:"event_type"`
	Headers    map[string]string `json:"headers"`
	Payload    json.RawMessage   `json:"payload"`
	Metadata   map[string]any    `json:"metadata"`
}
