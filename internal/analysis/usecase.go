package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quality-agent/internal/dispatch"
	"quality-agent/internal/metrics"
	"quality-agent/internal/model"
	pkgLog "quality-agent/pkg/log"
)

type processor struct {
	pipeline Pipeline
	metrics  metrics.Recorder
	l        pkgLog.Logger
	now      func() time.Time
}

// Handle runs one background job.
func (p *processor) Handle(ctx context.Context, job dispatch.Job) error {
	start := p.now()

	var err error
	switch job.EventType {
	case model.EventPullRequest:
		err = p.handlePullRequest(ctx, job)
	case model.EventPush:
		err = p.handlePush(ctx, job)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedJob, job.EventType)
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	p.metrics.JobCompleted(string(job.EventType), status, p.now().Sub(start))
	return err
}

func (p *processor) handlePullRequest(ctx context.Context, job dispatch.Job) error {
	pr := job.Event.PullRequest
	if pr == nil {
		return ErrMissingEvent
	}

	ctx = pkgLog.WithFields(ctx, "repository", pr.Repository.FullName, "pr_number", pr.Number)
	p.l.Infof(ctx, "Starting analysis of %s#%d at %s (%s)", pr.Repository.FullName, pr.Number, pr.Head.SHA, pr.Action)

	report, err := p.pipeline.Analyze(ctx, NewRequest(job.DeliveryID, *pr))
	if err != nil {
		return fmt.Errorf("analysis pipeline: %w", err)
	}

	if report.Status == StatusFailed {
		return fmt.Errorf("%w: %s", ErrAnalysisFailed, strings.Join(report.Errors, "; "))
	}

	p.l.Infof(ctx, "Analysis %s: risk=%s files=%d lines=%d gaps=%d tests=%d duration=%s",
		report.Status, report.RiskScore, report.TotalFilesChanged, report.TotalLinesChanged,
		report.CoverageGaps, report.RecommendedTests, report.Duration)
	return nil
}

func (p *processor) handlePush(ctx context.Context, job dispatch.Job) error {
	push := job.Event.Push
	if push == nil {
		return ErrMissingEvent
	}

	repo := push.Repository.FullName
	branch := push.BranchName()
	ctx = pkgLog.WithFields(ctx, "repository", repo, "branch", branch)

	p.l.Infof(ctx, "Push to %s:%s with %d commit(s)", repo, branch, push.CommitCount())

	// Pushes to the default branch stand in for deployments.
	if branch != "" && branch == push.Repository.DefaultBranch {
		p.metrics.Deployment(repo, ProductionEnvironment, true)
	}
	return nil
}
