package dispatch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quality-agent/internal/model"
)

// Job is one unit of background work derived from a delivery.
type Job struct {
	ID         string          `json:"id"`
	DeliveryID string          `json:"delivery_id"`
	EventType  model.EventType `json:"event_type"`
	Event      model.Event     `json:"event"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewJob builds a Job for a validated event.
func NewJob(deliveryID string, event model.Event) Job {
	return Job{
		ID:         uuid.NewString(),
		DeliveryID: deliveryID,
		EventType:  event.Type,
		Event:      event,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Encode serializes a job for the queue.
func Encode(job Job) ([]byte, error) {
	return json.Marshal(job)
}

// Decode parses a queued job.
func Decode(data []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if job.ID == "" || job.EventType == "" {
		return Job{}, fmt.Errorf("%w: missing id or event_type", ErrMalformedJob)
	}
	return job, nil
}

// PoolConfig sizes the in-process worker pool.
type PoolConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}
