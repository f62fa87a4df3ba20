package http

import (
	"github.com/gin-gonic/gin"

	"quality-agent/internal/webhook"
	"quality-agent/pkg/log"
)

const defaultMaxBodyBytes = 25 << 20 // GitHub caps payloads at 25 MB

// Handler is the public interface for the webhook HTTP delivery layer.
type Handler interface {
	GitHubWebhook(c *gin.Context)
}

// Config tunes the delivery layer.
type Config struct {
	MaxBodyBytes int64
	// Debug exposes internal error text in 500 responses.
	Debug bool
}

type handler struct {
	l   log.Logger
	uc  webhook.UseCase
	cfg Config
}

// New creates a new HTTP handler for GitHub webhooks.
func New(l log.Logger, uc webhook.UseCase, cfg Config) Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &handler{
		l:   l,
		uc:  uc,
		cfg: cfg,
	}
}
