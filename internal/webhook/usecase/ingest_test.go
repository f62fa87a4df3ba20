package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-agent/internal/audit"
	"quality-agent/internal/dispatch"
	"quality-agent/internal/idempotency"
	"quality-agent/internal/idempotency/repository/memory"
	idemUC "quality-agent/internal/idempotency/usecase"
	"quality-agent/internal/model"
	"quality-agent/internal/payload"
	"quality-agent/internal/webhook"
	"quality-agent/internal/webhook/webhooktest"
	"quality-agent/pkg/log"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []dispatch.Job
	err  error

	// when set, Dispatch signals entered and waits for release
	entered chan struct{}
	release chan struct{}
}

func (f *fakeDispatcher) Dispatch(_ context.Context, job dispatch.Job) error {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeDispatcher) Shutdown(context.Context) error { return nil }

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
	prs      []string
}

func (r *fakeRecorder) WebhookReceived(eventType, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, eventType+"/"+outcome)
}

func (r *fakeRecorder) PullRequestEvent(repo, action string, merged bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prs = append(r.prs, repo+"/"+action)
}

func (r *fakeRecorder) PullRequestReviewTime(string, time.Duration) {}
func (r *fakeRecorder) Deployment(string, string, bool)             {}
func (r *fakeRecorder) JobCompleted(string, string, time.Duration)  {}

type harness struct {
	uc         webhook.UseCase
	dedup      idempotency.UseCase
	auditor    audit.Auditor
	dispatcher *fakeDispatcher
	metrics    *fakeRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	l := log.NewNop()
	h := &harness{
		dedup:      idemUC.New(memory.New(100, time.Hour), idempotency.Config{Enabled: true}, l),
		auditor:    audit.New(audit.Config{Enabled: true, Dir: t.TempDir()}, l),
		dispatcher: &fakeDispatcher{},
		metrics:    &fakeRecorder{},
	}
	h.uc = New(
		webhook.NewSecurityValidator(webhook.SecurityConfig{Secret: webhooktest.Secret}),
		h.dedup,
		h.auditor,
		payload.New(),
		h.dispatcher,
		h.metrics,
		l,
	)
	return h
}

func delivery(eventType model.EventType, body []byte) model.WebhookDelivery {
	return model.WebhookDelivery{
		DeliveryID: uuid.NewString(),
		EventType:  eventType,
		Signature:  webhook.SignPayload(body, webhooktest.Secret),
		RawBody:    body,
		Headers:    map[string]string{"X-GitHub-Event": string(eventType)},
		RemoteAddr: "192.0.2.10",
		UserAgent:  "GitHub-Hookshot/abc",
		ReceivedAt: time.Now().UTC(),
	}
}

func TestIngest_Router(t *testing.T) {
	tests := []struct {
		name       string
		eventType  model.EventType
		body       []byte
		outcome    webhook.Outcome
		reason     webhook.IgnoreReason
		message    string
		prNumber   int
		branch     string
		commits    int
		dispatched bool
	}{
		{
			name:       "pr opened",
			eventType:  model.EventPullRequest,
			body:       webhooktest.Marshal(webhooktest.PullRequest("opened", 42)),
			outcome:    webhook.OutcomeProcessing,
			message:    "Pull request analysis started",
			prNumber:   42,
			dispatched: true,
		},
		{
			name:       "pr synchronize",
			eventType:  model.EventPullRequest,
			body:       webhooktest.Marshal(webhooktest.PullRequest("synchronize", 7)),
			outcome:    webhook.OutcomeProcessing,
			message:    "Pull request analysis started",
			prNumber:   7,
			dispatched: true,
		},
		{
			name:      "pr labeled",
			eventType: model.EventPullRequest,
			body:      webhooktest.Marshal(webhooktest.PullRequest("labeled", 42)),
			outcome:   webhook.OutcomeIgnored,
			reason:    webhook.ReasonNotActionable,
			message:   "Action 'labeled' does not require analysis",
			prNumber:  42,
		},
		{
			name:      "pr closed",
			eventType: model.EventPullRequest,
			body:      webhooktest.Marshal(webhooktest.PullRequest("closed", 5)),
			outcome:   webhook.OutcomeIgnored,
			reason:    webhook.ReasonNotActionable,
			message:   "Action 'closed' does not require analysis",
			prNumber:  5,
		},
		{
			name:       "push to branch",
			eventType:  model.EventPush,
			body:       webhooktest.Marshal(webhooktest.Push("refs/heads/main", 3)),
			outcome:    webhook.OutcomeAccepted,
			message:    "Push received",
			branch:     "main",
			commits:    3,
			dispatched: true,
		},
		{
			name:       "push to nested branch",
			eventType:  model.EventPush,
			body:       webhooktest.Marshal(webhooktest.Push("refs/heads/feature/login", 1)),
			outcome:    webhook.OutcomeAccepted,
			message:    "Push received",
			branch:     "feature/login",
			commits:    1,
			dispatched: true,
		},
		{
			name:      "push tag",
			eventType: model.EventPush,
			body:      webhooktest.Marshal(webhooktest.Push("refs/tags/v1.0.0", 0)),
			outcome:   webhook.OutcomeIgnored,
			reason:    webhook.ReasonNotBranch,
			message:   "Ref 'refs/tags/v1.0.0' is not a branch",
		},
		{
			name:      "unsupported event",
			eventType: model.EventType("issues"),
			body:      []byte(`{"action":"opened","issue":{"number":1}}`),
			outcome:   webhook.OutcomeIgnored,
			reason:    webhook.ReasonUnsupportedEvent,
			message:   "Event type 'issues' is not handled",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			d := delivery(tc.eventType, tc.body)

			res, err := h.uc.Ingest(context.Background(), d)
			require.NoError(t, err)

			assert.Equal(t, tc.outcome, res.Outcome)
			assert.Equal(t, tc.reason, res.Reason)
			assert.Equal(t, tc.message, res.Message)
			assert.Equal(t, tc.prNumber, res.PRNumber)
			assert.Equal(t, tc.branch, res.Branch)
			assert.Equal(t, tc.commits, res.Commits)
			assert.Equal(t, d.DeliveryID, res.DeliveryID)

			if tc.dispatched {
				require.Len(t, h.dispatcher.jobs, 1)
				job := h.dispatcher.jobs[0]
				assert.Equal(t, d.DeliveryID, job.DeliveryID)
				assert.Equal(t, tc.eventType, job.EventType)
				assert.Equal(t, job.ID, res.JobID)
			} else {
				assert.Empty(t, h.dispatcher.jobs)
			}

			assert.True(t, h.dedup.IsDuplicate(context.Background(), d.DeliveryID), "handled delivery must be recorded")
			assert.Len(t, h.auditor.ReadLogs(context.Background(), time.Now()), 1)
			assert.Equal(t, []string{string(tc.eventType) + "/" + string(tc.outcome)}, h.metrics.outcomes)
		})
	}
}

func TestIngest_InvalidSignature(t *testing.T) {
	h := newHarness(t)
	d := delivery(model.EventPullRequest, webhooktest.Marshal(webhooktest.PullRequest("opened", 42)))
	d.Signature = webhook.SignPayload(d.RawBody, "wrong-secret")

	_, err := h.uc.Ingest(context.Background(), d)
	assert.ErrorIs(t, err, webhook.ErrInvalidSignature)

	assert.Empty(t, h.auditor.ListLogFiles(), "unverified bodies are never audited")
	assert.Empty(t, h.dispatcher.jobs)
	assert.Empty(t, h.metrics.outcomes)
	assert.False(t, h.dedup.IsDuplicate(context.Background(), d.DeliveryID))
}

func TestIngest_SignatureCoversExactBytes(t *testing.T) {
	h := newHarness(t)
	body := webhooktest.Marshal(webhooktest.PullRequest("opened", 42))
	d := delivery(model.EventPullRequest, body)
	// semantically identical JSON, different bytes
	d.RawBody = append(append([]byte{}, body...), '\n')

	_, err := h.uc.Ingest(context.Background(), d)
	assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
}

func TestIngest_Duplicate(t *testing.T) {
	h := newHarness(t)
	d := delivery(model.EventPullRequest, webhooktest.Marshal(webhooktest.PullRequest("opened", 42)))

	first, err := h.uc.Ingest(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeProcessing, first.Outcome)

	second, err := h.uc.Ingest(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeIgnored, second.Outcome)
	assert.Equal(t, webhook.ReasonDuplicate, second.Reason)
	assert.Equal(t, "Delivery '"+d.DeliveryID+"' was already processed", second.Message)

	assert.Len(t, h.dispatcher.jobs, 1, "redelivery must not start a second analysis")
	assert.Len(t, h.auditor.ReadLogs(context.Background(), time.Now()), 1)
}

func TestIngest_ConcurrentSameDelivery(t *testing.T) {
	h := newHarness(t)
	h.dispatcher.entered = make(chan struct{}, 1)
	h.dispatcher.release = make(chan struct{})
	d := delivery(model.EventPullRequest, webhooktest.Marshal(webhooktest.PullRequest("opened", 42)))

	first := make(chan webhook.Result, 1)
	go func() {
		res, err := h.uc.Ingest(context.Background(), d)
		assert.NoError(t, err)
		first <- res
	}()
	<-h.dispatcher.entered

	// the first delivery is past the duplicate check but not yet recorded
	res, err := h.uc.Ingest(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeIgnored, res.Outcome)
	assert.Equal(t, webhook.ReasonDuplicate, res.Reason)

	close(h.dispatcher.release)
	assert.Equal(t, webhook.OutcomeProcessing, (<-first).Outcome)
	assert.Len(t, h.dispatcher.jobs, 1)

	res, err = h.uc.Ingest(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, webhook.ReasonDuplicate, res.Reason, "recorded after the first delivery finished")
}

func TestIngest_InvalidJSON(t *testing.T) {
	h := newHarness(t)
	d := delivery(model.EventPullRequest, []byte(`{"action": "opened",`))

	_, err := h.uc.Ingest(context.Background(), d)
	assert.ErrorIs(t, err, webhook.ErrInvalidJSON)
	assert.Empty(t, h.auditor.ListLogFiles())
	assert.False(t, h.dedup.IsDuplicate(context.Background(), d.DeliveryID))
}

func TestIngest_InvalidPayload(t *testing.T) {
	h := newHarness(t)
	doc := webhooktest.PullRequest("opened", 42)
	delete(doc, "pull_request")
	d := delivery(model.EventPullRequest, webhooktest.Marshal(doc))

	_, err := h.uc.Ingest(context.Background(), d)
	require.ErrorIs(t, err, webhook.ErrInvalidPayload)

	var verr *payload.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, payload.KindMissingField, verr.Kind)
	assert.Equal(t, "pull_request", verr.Field)

	// audited before validation, never recorded
	assert.Len(t, h.auditor.ReadLogs(context.Background(), time.Now()), 1)
	assert.False(t, h.dedup.IsDuplicate(context.Background(), d.DeliveryID))
	assert.Empty(t, h.dispatcher.jobs)
}

func TestIngest_DispatchFailure(t *testing.T) {
	h := newHarness(t)
	h.dispatcher.err = dispatch.ErrQueueFull
	d := delivery(model.EventPullRequest, webhooktest.Marshal(webhooktest.PullRequest("opened", 42)))

	_, err := h.uc.Ingest(context.Background(), d)
	assert.ErrorIs(t, err, webhook.ErrDispatchFailed)
	assert.ErrorIs(t, err, dispatch.ErrQueueFull)
	assert.False(t, h.dedup.IsDuplicate(context.Background(), d.DeliveryID), "failed hand-off must allow redelivery")

	assert.Empty(t, h.metrics.prs, "rejected hand-off is not counted")

	h.dispatcher.err = nil
	res, err := h.uc.Ingest(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeProcessing, res.Outcome)
	assert.Equal(t, []string{"octocat/hello-world/opened"}, h.metrics.prs)
}

func TestIngest_SourceChecks(t *testing.T) {
	l := log.NewNop()
	uc := New(
		webhook.NewSecurityValidator(webhook.SecurityConfig{
			Secret:          webhooktest.Secret,
			AllowedIPs:      []string{"192.0.2.0/24"},
			RateLimitPerMin: 1,
		}),
		idemUC.New(nil, idempotency.Config{}, l),
		audit.New(audit.Config{Enabled: false}, l),
		payload.New(),
		&fakeDispatcher{},
		nil,
		l,
	)

	body := webhooktest.Marshal(webhooktest.Push("refs/heads/main", 1))

	blocked := delivery(model.EventPush, body)
	blocked.RemoteAddr = "198.51.100.7"
	_, err := uc.Ingest(context.Background(), blocked)
	assert.ErrorIs(t, err, webhook.ErrSourceNotAllowed)

	_, err = uc.Ingest(context.Background(), delivery(model.EventPush, body))
	require.NoError(t, err)

	_, err = uc.Ingest(context.Background(), delivery(model.EventPush, body))
	assert.True(t, errors.Is(err, webhook.ErrRateLimited), "got %v", err)
}

func TestIngest_RecordsPullRequestMetrics(t *testing.T) {
	h := newHarness(t)
	for _, action := range []string{"opened", "closed", "labeled"} {
		_, err := h.uc.Ingest(context.Background(),
			delivery(model.EventPullRequest, webhooktest.Marshal(webhooktest.PullRequest(action, 1))))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{
		"octocat/hello-world/opened",
		"octocat/hello-world/closed",
		"octocat/hello-world/labeled",
	}, h.metrics.prs)
}

func TestIngest_AuditMetadata(t *testing.T) {
	tests := []struct {
		name      string
		eventType model.EventType
		body      []byte
		want      map[string]any
		absent    []string
	}{
		{
			name:      "pull request",
			eventType: model.EventPullRequest,
			body:      webhooktest.Marshal(webhooktest.PullRequest("opened", 42)),
			want: map[string]any{
				"action":     "opened",
				"pr_number":  float64(42),
				"repository": "octocat/hello-world",
			},
			absent: []string{"ref"},
		},
		{
			name:      "push",
			eventType: model.EventPush,
			body:      webhooktest.Marshal(webhooktest.Push("refs/heads/main", 1)),
			want: map[string]any{
				"ref":        "refs/heads/main",
				"repository": "octocat/hello-world",
			},
			absent: []string{"action", "pr_number"},
		},
		{
			name:      "schema invalid body keeps what it can",
			eventType: model.EventPullRequest,
			body:      []byte(`{"action":"opened","number":"seven","repository":{"full_name":"o/r"}}`),
			want: map[string]any{
				"action":     "opened",
				"repository": "o/r",
			},
			absent: []string{"pr_number", "ref"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			d := delivery(tc.eventType, tc.body)
			_, _ = h.uc.Ingest(context.Background(), d)

			entries := h.auditor.ReadLogs(context.Background(), time.Now())
			require.Len(t, entries, 1)
			meta := entries[0].Metadata

			assert.Equal(t, float64(len(tc.body)), meta["payload_size"])
			assert.Equal(t, "192.0.2.10", meta["remote_addr"])
			assert.Equal(t, "GitHub-Hookshot/abc", meta["user_agent"])
			assert.Contains(t, meta, "received_at")
			assert.NotContains(t, meta, "content_length")
			for k, v := range tc.want {
				assert.Equal(t, v, meta[k], k)
			}
			for _, k := range tc.absent {
				assert.NotContains(t, meta, k)
			}
		})
	}
}
