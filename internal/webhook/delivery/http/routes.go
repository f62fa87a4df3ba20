package http

import "github.com/gin-gonic/gin"

// RegisterRoutes maps the GitHub webhook endpoint. It carries no auth
// middleware: deliveries authenticate with their HMAC signature.
func RegisterRoutes(r gin.IRouter, h Handler) {
	r.POST("/webhook/github", h.GitHubWebhook)
}
