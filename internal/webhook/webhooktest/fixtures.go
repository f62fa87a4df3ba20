// Package webhooktest provides GitHub webhook payload fixtures for tests.
package webhooktest

import (
	"encoding/json"
	"fmt"
)

const (
	Secret  = "test-webhook-secret"
	HeadSHA = "1111111111111111111111111111111111111111"
	BaseSHA = "2222222222222222222222222222222222222222"
)

func user(login string, id int) map[string]any {
	return map[string]any{
		"login":      login,
		"id":         id,
		"avatar_url": fmt.Sprintf("https://avatars.githubusercontent.com/u/%d", id),
		"html_url":   "https://github.com/" + login,
		"type":       "User",
	}
}

func repository() map[string]any {
	return map[string]any{
		"id":             1296269,
		"name":           "hello-world",
		"full_name":      "octocat/hello-world",
		"html_url":       "https://github.com/octocat/hello-world",
		"private":        false,
		"default_branch": "main",
		"owner":          user("octocat", 1),
	}
}

// PullRequest returns a pull_request payload for PR #number with the given action.
func PullRequest(action string, number int) map[string]any {
	merged := action == "closed"
	var mergedAt any
	if merged {
		mergedAt = "2026-01-02T12:00:00Z"
	}
	return map[string]any{
		"action": action,
		"number": number,
		"pull_request": map[string]any{
			"id":            number * 1000,
			"number":        number,
			"state":         "open",
			"title":         "Add login flow",
			"body":          "Implements the login page.",
			"html_url":      fmt.Sprintf("https://github.com/octocat/hello-world/pull/%d", number),
			"diff_url":      fmt.Sprintf("https://github.com/octocat/hello-world/pull/%d.diff", number),
			"draft":         false,
			"user":          user("alice", 2),
			"head":          map[string]any{"ref": "feature/login", "sha": HeadSHA, "label": "octocat:feature/login"},
			"base":          map[string]any{"ref": "main", "sha": BaseSHA, "label": "octocat:main"},
			"merged":        merged,
			"additions":     120,
			"deletions":     15,
			"changed_files": 4,
			"created_at":    "2026-01-02T10:00:00Z",
			"updated_at":    "2026-01-02T11:00:00Z",
			"merged_at":     mergedAt,
		},
		"repository": repository(),
		"sender":     user("alice", 2),
	}
}

func commit(id string) map[string]any {
	return map[string]any{
		"id":        id,
		"message":   "feat: add login",
		"timestamp": "2026-01-02T10:00:00Z",
		"url":       "https://github.com/octocat/hello-world/commit/" + id,
		"author":    map[string]any{"name": "Alice", "email": "alice@example.com", "username": "alice"},
		"added":     []string{"login.go"},
		"removed":   []string{},
		"modified":  []string{"main.go"},
	}
}

// Push returns a push payload for ref carrying the given number of commits.
func Push(ref string, commits int) map[string]any {
	list := make([]any, 0, commits)
	for i := 0; i < commits; i++ {
		list = append(list, commit(HeadSHA))
	}
	var head any
	if commits > 0 {
		head = commit(HeadSHA)
	}
	return map[string]any{
		"ref":         ref,
		"before":      BaseSHA,
		"after":       HeadSHA,
		"compare":     "https://github.com/octocat/hello-world/compare/2222222...1111111",
		"commits":     list,
		"head_commit": head,
		"pusher":      map[string]any{"name": "alice", "email": "alice@example.com"},
		"repository":  repository(),
		"sender":      user("alice", 2),
	}
}

// Marshal encodes a fixture; it panics on failure since fixtures are static.
func Marshal(doc any) []byte {
	b, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("webhooktest: marshal fixture: %v", err))
	}
	return b
}
