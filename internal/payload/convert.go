package payload

import "quality-agent/internal/model"

func (u *userPayload) toModel() model.User {
	if u == nil {
		return model.User{}
	}
	return model.User{Login: u.Login, ID: u.ID, Type: u.Type}
}

func (r *repositoryPayload) toModel() model.Repository {
	return model.Repository{
		ID:            r.ID,
		Name:          r.Name,
		FullName:      r.FullName,
		HTMLURL:       r.HTMLURL,
		Private:       *r.Private,
		DefaultBranch: r.DefaultBranch,
		Owner:         r.Owner.toModel(),
	}
}

func (r *refPayload) toModel() model.GitRef {
	return model.GitRef{Ref: r.Ref, SHA: r.SHA, Label: r.Label}
}

func (w *pullRequestWebhook) toModel() *model.PullRequestEvent {
	pr := w.PullRequest
	ev := &model.PullRequestEvent{
		Action:       model.PullRequestAction(w.Action),
		Number:       w.Number,
		Title:        pr.Title,
		State:        pr.State,
		HTMLURL:      pr.HTMLURL,
		DiffURL:      pr.DiffURL,
		Draft:        pr.Draft,
		Author:       pr.User.toModel(),
		Head:         pr.Head.toModel(),
		Base:         pr.Base.toModel(),
		Additions:    *pr.Additions,
		Deletions:    *pr.Deletions,
		ChangedFiles: *pr.ChangedFiles,
		Merged:       *pr.Merged,
		CreatedAt:    *pr.CreatedAt,
		UpdatedAt:    *pr.UpdatedAt,
		MergedAt:     pr.MergedAt,
		Repository:   w.Repository.toModel(),
		Sender:       w.Sender.toModel(),
	}
	if pr.Body != nil {
		ev.Body = *pr.Body
	}
	return ev
}

func (a *authorPayload) toModel() model.CommitAuthor {
	return model.CommitAuthor{Name: a.Name, Email: a.Email, Username: a.Username}
}

func (c *commitPayload) toModel() model.Commit {
	return model.Commit{
		ID:        c.ID,
		Message:   c.Message,
		Timestamp: *c.Timestamp,
		URL:       c.URL,
		Author:    c.Author.toModel(),
		Added:     nonNil(c.Added),
		Removed:   nonNil(c.Removed),
		Modified:  nonNil(c.Modified),
	}
}

func (w *pushWebhook) toModel() *model.PushEvent {
	ev := &model.PushEvent{
		Ref:        w.Ref,
		Before:     w.Before,
		After:      w.After,
		Compare:    w.Compare,
		Commits:    make([]model.Commit, 0, len(w.Commits)),
		Pusher:     w.Pusher.toModel(),
		Repository: w.Repository.toModel(),
		Sender:     w.Sender.toModel(),
	}
	for i := range w.Commits {
		ev.Commits = append(ev.Commits, w.Commits[i].toModel())
	}
	if w.HeadCommit != nil {
		head := w.HeadCommit.toModel()
		ev.HeadCommit = &head
	}
	return ev
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
