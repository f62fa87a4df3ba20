package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quality-agent/pkg/response"
)

// GitHubWebhook godoc
// @Summary     Receive a GitHub webhook
// @Description Verifies the HMAC signature, deduplicates, audits, validates and routes a GitHub delivery.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
// @Param       X-Hub-Signature-256 header string true "sha256=<hex HMAC of the body>"
// @Param       X-GitHub-Event      header string true "Event type (pull_request, push, ...)"
// @Param       X-GitHub-Delivery   header string true "Unique delivery id"
// @Param       body                body   object true "GitHub webhook payload"
// @Success     200 {object} webhookResp
// @Failure     400 {object} response.ErrorResp "Invalid JSON or payload structure"
// @Failure     401 {object} response.ErrorResp "Invalid webhook signature"
// @Failure     403 {object} response.ErrorResp "Source address not allowed"
// @Failure     413 {object} response.ErrorResp "Payload too large"
// @Failure     422 {object} response.ErrorResp "Missing required header"
// @Failure     429 {object} response.ErrorResp "Rate limit exceeded"
// @Failure     503 {object} response.ErrorResp "Event could not be queued"
// @Router      /webhook/github [POST]
func (h *handler) GitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	delivery, err := h.processWebhookReq(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	result, err := h.uc.Ingest(ctx, delivery)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	response.OK(c, h.newWebhookResp(result))
}

func (h *handler) abortWithError(c *gin.Context, err error) {
	status, detail := h.mapError(err)
	if status == http.StatusInternalServerError {
		h.l.Errorf(c.Request.Context(), "webhook.delivery.http: unexpected error: %v", err)
		response.InternalError(c, err, h.cfg.Debug)
		return
	}
	response.Error(c, status, detail)
}
