package model

import "time"

// EventType is the value of the X-GitHub-Event header.
type EventType string

const (
	EventPullRequest EventType = "pull_request"
	EventPush        EventType = "push"
)

// IsSupported reports whether the event type is handled by the router.
func (t EventType) IsSupported() bool {
	return t == EventPullRequest || t == EventPush
}

// WebhookDelivery is a single inbound webhook request as received at ingress.
// RawBody holds the exact bytes the signature was computed over.
type WebhookDelivery struct {
	DeliveryID string
	EventType  EventType
	Signature  string
	RawBody    []byte
	Headers    map[string]string
	RemoteAddr string
	UserAgent  string
	ReceivedAt time.Time
}

// Event is a validated webhook payload. Exactly one of PullRequest or Push is set.
type Event struct {
	Type        EventType         `json:"type"`
	PullRequest *PullRequestEvent `json:"pull_request,omitempty"`
	Push        *PushEvent        `json:"push,omitempty"`
}

// RepoFullName returns the owner/repo of the event's repository.
func (e Event) RepoFullName() string {
	switch {
	case e.PullRequest != nil:
		return e.PullRequest.Repository.FullName
	case e.Push != nil:
		return e.Push.Repository.FullName
	}
	return ""
}
