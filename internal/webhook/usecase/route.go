package usecase

import (
	"context"
	"fmt"

	"quality-agent/internal/dispatch"
	"quality-agent/internal/model"
	"quality-agent/internal/webhook"
	"quality-agent/pkg/log"
)

func (uc *implUseCase) route(ctx context.Context, d model.WebhookDelivery, event model.Event) (webhook.Result, error) {
	switch {
	case event.PullRequest != nil:
		return uc.routePullRequest(ctx, d, event)
	case event.Push != nil:
		return uc.routePush(ctx, d, event)
	}
	return webhook.Result{
		Outcome:    webhook.OutcomeIgnored,
		Reason:     webhook.ReasonUnsupportedEvent,
		Message:    fmt.Sprintf("Event type '%s' is not handled", d.EventType),
		EventType:  d.EventType,
		DeliveryID: d.DeliveryID,
	}, nil
}

func (uc *implUseCase) routePullRequest(ctx context.Context, d model.WebhookDelivery, event model.Event) (webhook.Result, error) {
	pr := event.PullRequest
	ctx = log.WithFields(ctx, "repository", pr.Repository.FullName, "pr_number", pr.Number)

	uc.l.Infof(ctx, "Pull request %s: %q by %s (%s -> %s)", pr.Action, pr.Title, pr.Author.Login, pr.Head.Ref, pr.Base.Ref)

	if !pr.IsActionable() {
		uc.recordPullRequest(pr)
		return webhook.Result{
			Outcome:    webhook.OutcomeIgnored,
			Reason:     webhook.ReasonNotActionable,
			Message:    fmt.Sprintf("Action '%s' does not require analysis", pr.Action),
			EventType:  d.EventType,
			DeliveryID: d.DeliveryID,
			PRNumber:   pr.Number,
			Action:     pr.Action,
		}, nil
	}

	job, err := uc.dispatch(ctx, d, event)
	if err != nil {
		return webhook.Result{}, err
	}
	uc.l.Infof(ctx, "Analysis queued as job %s", job.ID)
	uc.recordPullRequest(pr)

	return webhook.Result{
		Outcome:    webhook.OutcomeProcessing,
		Message:    "Pull request analysis started",
		EventType:  d.EventType,
		DeliveryID: d.DeliveryID,
		JobID:      job.ID,
		PRNumber:   pr.Number,
		Action:     pr.Action,
	}, nil
}

// recordPullRequest runs only after the delivery is accepted.
func (uc *implUseCase) recordPullRequest(pr *model.PullRequestEvent) {
	uc.metrics.PullRequestEvent(pr.Repository.FullName, string(pr.Action), pr.IsMerged())
	if pr.IsMerged() && pr.MergedAt != nil {
		uc.metrics.PullRequestReviewTime(pr.Repository.FullName, pr.MergedAt.Sub(pr.CreatedAt))
	}
}

func (uc *implUseCase) routePush(ctx context.Context, d model.WebhookDelivery, event model.Event) (webhook.Result, error) {
	push := event.Push
	ctx = log.WithFields(ctx, "repository", push.Repository.FullName, "ref", push.Ref)

	if !push.IsBranchPush() {
		uc.l.Infof(ctx, "Ignoring push to non-branch ref")
		return webhook.Result{
			Outcome:    webhook.OutcomeIgnored,
			Reason:     webhook.ReasonNotBranch,
			Message:    fmt.Sprintf("Ref '%s' is not a branch", push.Ref),
			EventType:  d.EventType,
			DeliveryID: d.DeliveryID,
		}, nil
	}

	uc.l.Infof(ctx, "Push to %s with %d commit(s) by %s", push.BranchName(), push.CommitCount(), push.Pusher.Name)

	job, err := uc.dispatch(ctx, d, event)
	if err != nil {
		return webhook.Result{}, err
	}

	return webhook.Result{
		Outcome:    webhook.OutcomeAccepted,
		Message:    "Push received",
		EventType:  d.EventType,
		DeliveryID: d.DeliveryID,
		JobID:      job.ID,
		Branch:     push.BranchName(),
		Commits:    push.CommitCount(),
	}, nil
}

func (uc *implUseCase) dispatch(ctx context.Context, d model.WebhookDelivery, event model.Event) (dispatch.Job, error) {
	job := dispatch.NewJob(d.DeliveryID, event)
	if err := uc.dispatcher.Dispatch(ctx, job); err != nil {
		uc.l.Errorf(ctx, "webhook.usecase.dispatch: hand-off failed: %v", err)
		return dispatch.Job{}, fmt.Errorf("%w: %w", webhook.ErrDispatchFailed, err)
	}
	return job, nil
}
