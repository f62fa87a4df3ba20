package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quality-agent/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthVersion      = "0.1.0"
	ServiceName        = "quality-agent"
	ServiceDescription = "GitHub webhook ingestion for pull request quality analysis"
)

// rootInfo describes the service.
// @Summary Service information
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (srv HTTPServer) rootInfo(c *gin.Context) {
	docs := "disabled"
	if !srv.isProduction() {
		docs = "/swagger/index.html"
	}
	response.OK(c, gin.H{
		"service":     ServiceName,
		"version":     HealthVersion,
		"description": ServiceDescription,
		"docs":        docs,
	})
}

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck runs every readiness check; any failure makes the service not ready.
// @Summary Readiness Check
// @Description Check if the API and its stores are ready to serve traffic
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Failure 503 {object} map[string]interface{} "A dependency is unavailable"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()
	checks := make(map[string]string, len(srv.readiness))
	ready := true
	for name, check := range srv.readiness {
		if err := check(ctx); err != nil {
			srv.l.Warnf(ctx, "httpserver.readyCheck: %s not ready: %v", name, err)
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"version": HealthVersion,
		"service": ServiceName,
		"checks":  checks,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": HealthVersion,
		"service": ServiceName,
	})
}
