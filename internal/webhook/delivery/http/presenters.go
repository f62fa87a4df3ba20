package http

import "quality-agent/internal/webhook"

// --- Response DTOs ---

// webhookResp is the 200 body. Which optional fields are present depends on
// the outcome; commits is present (possibly 0) for every accepted push.
type webhookResp struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	PRNumber   *int   `json:"pr_number,omitempty"`
	Action     string `json:"action,omitempty"`
	DeliveryID string `json:"delivery_id,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Commits    *int   `json:"commits,omitempty"`
}

func (h *handler) newWebhookResp(r webhook.Result) webhookResp {
	resp := webhookResp{
		Status:  string(r.Outcome),
		Message: r.Message,
	}

	switch r.Outcome {
	case webhook.OutcomeProcessing:
		resp.PRNumber = intPtr(r.PRNumber)
		resp.Action = string(r.Action)
		resp.DeliveryID = r.DeliveryID
	case webhook.OutcomeAccepted:
		resp.Branch = r.Branch
		resp.Commits = intPtr(r.Commits)
	case webhook.OutcomeIgnored:
		switch r.Reason {
		case webhook.ReasonDuplicate:
			resp.DeliveryID = r.DeliveryID
		case webhook.ReasonNotActionable:
			resp.PRNumber = intPtr(r.PRNumber)
		}
	}

	return resp
}

func intPtr(v int) *int { return &v }
