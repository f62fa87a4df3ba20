package payload

import "time"

// Wire shapes. Pointers mark fields that must be present even when their
// zero value is legal (counts, booleans, nested objects).

type userPayload struct {
	Login string `json:"login" validate:"required"`
	ID    int64  `json:"id" validate:"required"`
	Type  string `json:"type"`
}

type repositoryPayload struct {
	ID            int64        `json:"id" validate:"required"`
	Name          string       `json:"name" validate:"required"`
	FullName      string       `json:"full_name" validate:"required"`
	HTMLURL       string       `json:"html_url" validate:"required,url"`
	Private       *bool        `json:"private" validate:"required"`
	DefaultBranch string       `json:"default_branch" validate:"required"`
	Owner         *userPayload `json:"owner" validate:"required"`
}

type refPayload struct {
	Ref   string `json:"ref" validate:"required"`
	SHA   string `json:"sha" validate:"required,gitsha"`
	Label string `json:"label"`
}

type pullRequestPayload struct {
	ID           int64        `json:"id" validate:"required"`
	Number       int          `json:"number" validate:"required,min=1"`
	State        string       `json:"state" validate:"required,oneof=open closed"`
	Title        string       `json:"title" validate:"required"`
	Body         *string      `json:"body"`
	HTMLURL      string       `json:"html_url" validate:"required,url"`
	DiffURL      string       `json:"diff_url" validate:"required,url"`
	Draft        bool         `json:"draft"`
	User         *userPayload `json:"user" validate:"required"`
	Head         *refPayload  `json:"head" validate:"required"`
	Base         *refPayload  `json:"base" validate:"required"`
	Merged       *bool        `json:"merged" validate:"required"`
	Additions    *int         `json:"additions" validate:"required,min=0"`
	Deletions    *int         `json:"deletions" validate:"required,min=0"`
	ChangedFiles *int         `json:"changed_files" validate:"required,min=0"`
	CreatedAt    *time.Time   `json:"created_at" validate:"required"`
	UpdatedAt    *time.Time   `json:"updated_at" validate:"required"`
	MergedAt     *time.Time   `json:"merged_at"`
}

type pullRequestWebhook struct {
	Action      string              `json:"action" validate:"required,oneof=assigned unassigned labeled unlabeled opened edited closed reopened synchronize converted_to_draft ready_for_review review_requested review_request_removed"`
	Number      int                 `json:"number" validate:"required,min=1"`
	PullRequest *pullRequestPayload `json:"pull_request" validate:"required"`
	Repository  *repositoryPayload  `json:"repository" validate:"required"`
	Sender      *userPayload        `json:"sender" validate:"required"`
}

type authorPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type commitPayload struct {
	ID        string         `json:"id" validate:"required,gitsha"`
	Message   string         `json:"message"`
	Timestamp *time.Time     `json:"timestamp" validate:"required"`
	URL       string         `json:"url" validate:"required,url"`
	Author    *authorPayload `json:"author" validate:"required"`
	Added     []string       `json:"added"`
	Removed   []string       `json:"removed"`
	Modified  []string       `json:"modified"`
}

type pushWebhook struct {
	Ref        string             `json:"ref" validate:"required"`
	Before     string             `json:"before" validate:"required,gitsha"`
	After      string             `json:"after" validate:"required,gitsha"`
	Compare    string             `json:"compare" validate:"required,url"`
	Commits    []commitPayload    `json:"commits" validate:"required,dive"`
	HeadCommit *commitPayload     `json:"head_commit" validate:"omitempty"`
	Pusher     *authorPayload     `json:"pusher" validate:"required"`
	Repository *repositoryPayload `json:"repository" validate:"required"`
	Sender     *userPayload       `json:"sender" validate:"required"`
}
