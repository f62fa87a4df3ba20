package webhook

import "quality-agent/internal/model"

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret for signature verification
	AllowedIPs      []string // IP / CIDR allow-list (optional)
	RateLimitPerMin int      // Max requests per minute per source, 0 disables
}

// Outcome is the ingestion outcome reported to GitHub.
type Outcome string

const (
	OutcomeProcessing Outcome = "processing"
	OutcomeAccepted   Outcome = "accepted"
	OutcomeIgnored    Outcome = "ignored"
)

// IgnoreReason explains an OutcomeIgnored result.
type IgnoreReason string

const (
	ReasonNone             IgnoreReason = ""
	ReasonDuplicate        IgnoreReason = "duplicate_delivery"
	ReasonUnsupportedEvent IgnoreReason = "unsupported_event"
	ReasonNotActionable    IgnoreReason = "action_not_actionable"
	ReasonNotBranch        IgnoreReason = "ref_not_branch"
)

// Result is the outcome of ingesting one delivery.
// Rejections are reported as errors, never as a Result.
type Result struct {
	Outcome    Outcome
	Reason     IgnoreReason
	Message    string
	EventType  model.EventType
	DeliveryID string
	JobID      string

	// pull_request
	PRNumber int
	Action   model.PullRequestAction

	// push
	Branch  string
	Commits int
}
