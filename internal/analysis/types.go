package analysis

import (
	"time"

	"quality-agent/internal/model"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Request is the input of one pull request analysis.
type Request struct {
	DeliveryID   string
	Repository   string
	PRNumber     int
	PRURL        string
	DiffURL      string
	Title        string
	Author       string
	CommitSHA    string
	HeadRef      string
	BaseRef      string
	Additions    int
	Deletions    int
	ChangedFiles int
	Checklist    ChecklistStats
}

// NewRequest builds a Request from a validated pull request event.
func NewRequest(deliveryID string, pr model.PullRequestEvent) Request {
	return Request{
		DeliveryID:   deliveryID,
		Repository:   pr.Repository.FullName,
		PRNumber:     pr.Number,
		PRURL:        pr.HTMLURL,
		DiffURL:      pr.DiffURL,
		Title:        pr.Title,
		Author:       pr.Author.Login,
		CommitSHA:    pr.Head.SHA,
		HeadRef:      pr.Head.Ref,
		BaseRef:      pr.Base.Ref,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		ChangedFiles: pr.ChangedFiles,
		Checklist:    ChecklistOf(pr.Body),
	}
}

// Report summarizes one analysis run.
type Report struct {
	PRNumber          int
	Repository        string
	CommitSHA         string
	AnalyzedAt        time.Time
	Duration          time.Duration
	Status            Status
	Errors            []string
	TotalFilesChanged int
	TotalLinesChanged int
	RiskScore         RiskLevel
	CoverageGaps      int
	RecommendedTests  int
	Checklist         ChecklistStats
}
