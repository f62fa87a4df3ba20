package model

import (
	"strings"
	"time"
)

const branchRefPrefix = "refs/heads/"

// PullRequestAction is the action field of a pull_request event.
type PullRequestAction string

const (
	ActionOpened               PullRequestAction = "opened"
	ActionClosed               PullRequestAction = "closed"
	ActionReopened             PullRequestAction = "reopened"
	ActionSynchronize          PullRequestAction = "synchronize"
	ActionEdited               PullRequestAction = "edited"
	ActionAssigned             PullRequestAction = "assigned"
	ActionUnassigned           PullRequestAction = "unassigned"
	ActionLabeled              PullRequestAction = "labeled"
	ActionUnlabeled            PullRequestAction = "unlabeled"
	ActionReviewRequested      PullRequestAction = "review_requested"
	ActionReviewRequestRemoved PullRequestAction = "review_request_removed"
	ActionReadyForReview       PullRequestAction = "ready_for_review"
	ActionConvertedToDraft     PullRequestAction = "converted_to_draft"
)

// User is a GitHub account.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type,omitempty"`
}

// Repository identifies the repository an event belongs to.
type Repository struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
	Owner         User   `json:"owner"`
}

// GitRef is the head or base of a pull request.
type GitRef struct {
	Ref   string `json:"ref"`
	SHA   string `json:"sha"`
	Label string `json:"label,omitempty"`
}

// PullRequestEvent is a validated pull_request webhook payload.
type PullRequestEvent struct {
	Action       PullRequestAction `json:"action"`
	Number       int               `json:"number"`
	Title        string            `json:"title"`
	Body         string            `json:"body,omitempty"`
	State        string            `json:"state"`
	HTMLURL      string            `json:"html_url"`
	DiffURL      string            `json:"diff_url"`
	Draft        bool              `json:"draft"`
	Author       User              `json:"author"`
	Head         GitRef            `json:"head"`
	Base         GitRef            `json:"base"`
	Additions    int               `json:"additions"`
	Deletions    int               `json:"deletions"`
	ChangedFiles int               `json:"changed_files"`
	Merged       bool              `json:"merged"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	MergedAt     *time.Time        `json:"merged_at,omitempty"`
	Repository   Repository        `json:"repository"`
	Sender       User              `json:"sender"`
}

// IsActionable reports whether the pull request needs analysis:
// only newly opened or updated pull requests do.
func (e PullRequestEvent) IsActionable() bool {
	return e.Action == ActionOpened || e.Action == ActionSynchronize
}

// IsMerged reports whether the event closes the pull request by merging it.
func (e PullRequestEvent) IsMerged() bool {
	return e.Action == ActionClosed && e.Merged
}

// CommitAuthor is the author block of a pushed commit.
type CommitAuthor struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// Commit is one commit of a push.
type Commit struct {
	ID        string       `json:"id"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	URL       string       `json:"url"`
	Author    CommitAuthor `json:"author"`
	Added     []string     `json:"added"`
	Removed   []string     `json:"removed"`
	Modified  []string     `json:"modified"`
}

// PushEvent is a validated push webhook payload.
type PushEvent struct {
	Ref        string       `json:"ref"`
	Before     string       `json:"before"`
	After      string       `json:"after"`
	Compare    string       `json:"compare"`
	Commits    []Commit     `json:"commits"`
	HeadCommit *Commit      `json:"head_commit,omitempty"`
	Pusher     CommitAuthor `json:"pusher"`
	Repository Repository   `json:"repository"`
	Sender     User         `json:"sender"`
}

// IsBranchPush reports whether the push targets a branch rather than a tag.
func (e PushEvent) IsBranchPush() bool {
	return strings.HasPrefix(e.Ref, branchRefPrefix)
}

// BranchName returns the branch of a branch push (refs/heads/feature/x -> feature/x).
// For other refs the ref is returned unchanged.
func (e PushEvent) BranchName() string {
	return strings.TrimPrefix(e.Ref, branchRefPrefix)
}

// CommitCount returns the number of commits in the push.
func (e PushEvent) CommitCount() int {
	return len(e.Commits)
}
