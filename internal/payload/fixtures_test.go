package payload_test

import (
	"encoding/json"
	"strings"
	"testing"
)

const (
	headSHA = "1111111111111111111111111111111111111111"
	baseSHA = "2222222222222222222222222222222222222222"
	zeroSHA = "0000000000000000000000000000000000000000"
)

func user(login string, id int) map[string]any {
	return map[string]any{
		"login":      login,
		"id":         id,
		"avatar_url": "https://avatars.githubusercontent.com/u/1",
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

func pullRequestPayload(action string) map[string]any {
	return map[string]any{
		"action": action,
		"number": 42,
		"pull_request": map[string]any{
			"id":            1,
			"number":        42,
			"state":         "open",
			"title":         "Add login flow",
			"body":          nil,
			"html_url":      "https://github.com/octocat/hello-world/pull/42",
			"diff_url":      "https://github.com/octocat/hello-world/pull/42.diff",
			"draft":         false,
			"user":          user("alice", 2),
			"head":          map[string]any{"ref": "feature/login", "sha": headSHA, "label": "octocat:feature/login"},
			"base":          map[string]any{"ref": "main", "sha": baseSHA, "label": "octocat:main"},
			"merged":        false,
			"additions":     10,
			"deletions":     2,
			"changed_files": 3,
			"created_at":    "2026-01-02T10:00:00Z",
			"updated_at":    "2026-01-02T11:00:00Z",
			"merged_at":     nil,
			"comments":      0,
		},
		"repository":   repository(),
		"sender":       user("alice", 2),
		"installation": map[string]any{"id": 99},
	}
}

func commit(id string) map[string]any {
	return map[string]any{
		"id":        id,
		"message":   "fix: handle empty input",
		"timestamp": "2026-01-02T10:00:00+02:00",
		"url":       "https://github.com/octocat/hello-world/commit/" + id,
		"author":    map[string]any{"name": "Alice", "email": "alice@example.com", "username": "alice"},
		"added":     []string{"a.go"},
		"removed":   []string{},
		"modified":  []string{"b.go"},
	}
}

func pushPayload(ref string) map[string]any {
	return map[string]any{
		"ref":         ref,
		"before":      baseSHA,
		"after":       headSHA,
		"compare":     "https://github.com/octocat/hello-world/compare/2222...1111",
		"commits":     []any{commit(headSHA)},
		"head_commit": commit(headSHA),
		"pusher":      map[string]any{"name": "alice", "email": "alice@example.com"},
		"repository":  repository(),
		"sender":      user("alice", 2),
	}
}

// set replaces the value at a dotted path; a nil value deletes the key.
func set(t *testing.T, doc map[string]any, path string, value any) map[string]any {
	t.Helper()
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			t.Fatalf("path %q: %q is not an object", path, p)
		}
		cur = next
	}
	last := parts[len(parts)-1]
	if value == nil {
		delete(cur, last)
	} else {
		cur[last] = value
	}
	return doc
}

func encode(t *testing.T, doc any) []byte {
	t.Helper()
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return b
}
