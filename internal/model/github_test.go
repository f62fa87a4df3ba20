package model_test

import (
	"testing"

	"quality-agent/internal/model"
)

func TestPullRequestEvent_IsActionable(t *testing.T) {
	tests := []struct {
		action model.PullRequestAction
		want   bool
	}{
		{model.ActionOpened, true},
		{model.ActionSynchronize, true},
		{model.ActionClosed, false},
		{model.ActionReopened, false},
		{model.ActionLabeled, false},
		{model.ActionReadyForReview, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			e := model.PullRequestEvent{Action: tt.action}
			if got := e.IsActionable(); got != tt.want {
				t.Errorf("IsActionable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPullRequestEvent_IsMerged(t *testing.T) {
	if !(model.PullRequestEvent{Action: model.ActionClosed, Merged: true}).IsMerged() {
		t.Error("closed+merged should be merged")
	}
	if (model.PullRequestEvent{Action: model.ActionClosed}).IsMerged() {
		t.Error("closed without merge should not be merged")
	}
}

func TestPushEvent_Branch(t *testing.T) {
	tests := []struct {
		ref        string
		wantBranch string
		wantPush   bool
	}{
		{"refs/heads/main", "main", true},
		{"refs/heads/feature/login", "feature/login", true},
		{"refs/tags/v1.0.0", "refs/tags/v1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			e := model.PushEvent{Ref: tt.ref}
			if got := e.IsBranchPush(); got != tt.wantPush {
				t.Errorf("IsBranchPush() = %v, want %v", got, tt.wantPush)
			}
			if got := e.BranchName(); got != tt.wantBranch {
				t.Errorf("BranchName() = %q, want %q", got, tt.wantBranch)
			}
		})
	}
}
