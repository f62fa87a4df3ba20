package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quality-agent/internal/dispatch"
	"quality-agent/internal/model"
	"quality-agent/pkg/log"
)

type fakePipeline struct {
	got    []Request
	report Report
	err    error
}

func (f *fakePipeline) Analyze(_ context.Context, req Request) (Report, error) {
	f.got = append(f.got, req)
	return f.report, f.err
}

type deployment struct {
	repo, env string
	success   bool
}

type fakeRecorder struct {
	deployments []deployment
	jobs        map[string]int
}

func newFakeRecorder() *fakeRecorder { return &fakeRecorder{jobs: map[string]int{}} }

func (r *fakeRecorder) WebhookReceived(string, string)              {}
func (r *fakeRecorder) PullRequestEvent(string, string, bool)       {}
func (r *fakeRecorder) PullRequestReviewTime(string, time.Duration) {}
func (r *fakeRecorder) Deployment(repo, env string, success bool) {
	r.deployments = append(r.deployments, deployment{repo, env, success})
}
func (r *fakeRecorder) JobCompleted(eventType, status string, _ time.Duration) {
	r.jobs[eventType+"/"+status]++
}

func prJob() dispatch.Job {
	return dispatch.NewJob("d-1", model.Event{
		Type: model.EventPullRequest,
		PullRequest: &model.PullRequestEvent{
			Action:       model.ActionOpened,
			Number:       42,
			Body:         "- [x] Tests added\n- [ ] Docs updated",
			HTMLURL:      "https://github.com/octo/repo/pull/42",
			Head:         model.GitRef{Ref: "feature", SHA: "1111111111111111111111111111111111111111"},
			Base:         model.GitRef{Ref: "main"},
			Additions:    10,
			Deletions:    4,
			ChangedFiles: 2,
			Repository:   model.Repository{FullName: "octo/repo", DefaultBranch: "main"},
		},
	})
}

func pushJob(ref string) dispatch.Job {
	return dispatch.NewJob("d-2", model.Event{
		Type: model.EventPush,
		Push: &model.PushEvent{
			Ref:        ref,
			Commits:    []model.Commit{{ID: "1111111111111111111111111111111111111111"}},
			Repository: model.Repository{FullName: "octo/repo", DefaultBranch: "main"},
		},
	})
}

func TestProcessor_PullRequest(t *testing.T) {
	pipeline := &fakePipeline{report: Report{Status: StatusCompleted, RiskScore: RiskHigh}}
	rec := newFakeRecorder()
	p := New(pipeline, rec, log.NewNop())

	require.NoError(t, p.Handle(context.Background(), prJob()))

	require.Len(t, pipeline.got, 1)
	req := pipeline.got[0]
	assert.Equal(t, "d-1", req.DeliveryID)
	assert.Equal(t, 42, req.PRNumber)
	assert.Equal(t, "octo/repo", req.Repository)
	assert.Equal(t, "1111111111111111111111111111111111111111", req.CommitSHA)
	assert.Equal(t, ChecklistStats{Total: 2, Completed: 1, Progress: 50}, req.Checklist)
	assert.Equal(t, 1, rec.jobs["pull_request/success"])
}

func TestProcessor_PipelineFailure(t *testing.T) {
	rec := newFakeRecorder()

	p := New(&fakePipeline{err: errors.New("llm unavailable")}, rec, log.NewNop())
	assert.Error(t, p.Handle(context.Background(), prJob()))

	p = New(&fakePipeline{report: Report{Status: StatusFailed, Errors: []string{"stage 2"}}}, rec, log.NewNop())
	err := p.Handle(context.Background(), prJob())
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Contains(t, err.Error(), "stage 2")

	assert.Equal(t, 2, rec.jobs["pull_request/failure"])
}

func TestProcessor_PushRecordsDeployments(t *testing.T) {
	rec := newFakeRecorder()
	p := New(&fakePipeline{}, rec, log.NewNop())

	require.NoError(t, p.Handle(context.Background(), pushJob("refs/heads/main")))
	require.NoError(t, p.Handle(context.Background(), pushJob("refs/heads/feature/x")))

	assert.Equal(t, []deployment{{"octo/repo", ProductionEnvironment, true}}, rec.deployments)
	assert.Equal(t, 2, rec.jobs["push/success"])
}

func TestProcessor_BadJobs(t *testing.T) {
	p := New(&fakePipeline{}, nil, log.NewNop())

	err := p.Handle(context.Background(), dispatch.Job{EventType: "issues"})
	assert.ErrorIs(t, err, ErrUnsupportedJob)

	err = p.Handle(context.Background(), dispatch.Job{EventType: model.EventPullRequest})
	assert.ErrorIs(t, err, ErrMissingEvent)
}

func TestLogPipeline(t *testing.T) {
	report, err := NewLogPipeline(log.NewNop()).Analyze(context.Background(), NewRequest("d-1", *prJob().Event.PullRequest))
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, report.Status)
	assert.Equal(t, 2, report.TotalFilesChanged)
	assert.Equal(t, 14, report.TotalLinesChanged)
}
