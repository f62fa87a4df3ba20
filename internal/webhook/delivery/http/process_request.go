package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quality-agent/internal/model"
	"quality-agent/internal/webhook"
)

const (
	headerSignature = "X-Hub-Signature-256"
	headerEvent     = "X-GitHub-Event"
	headerDelivery  = "X-GitHub-Delivery"
)

var requiredHeaders = []string{headerSignature, headerEvent, headerDelivery}

// processWebhookReq checks the GitHub headers and reads the body verbatim.
// The body is never re-encoded: the signature covers these exact bytes.
func (h *handler) processWebhookReq(c *gin.Context) (model.WebhookDelivery, error) {
	for _, name := range requiredHeaders {
		if c.GetHeader(name) == "" {
			return model.WebhookDelivery{}, missingHeaderError{name: name}
		}
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.WebhookDelivery{}, webhook.ErrPayloadTooLarge
		}
		return model.WebhookDelivery{}, fmt.Errorf("read body: %w", err)
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name, values := range c.Request.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	return model.WebhookDelivery{
		DeliveryID: c.GetHeader(headerDelivery),
		EventType:  model.EventType(c.GetHeader(headerEvent)),
		Signature:  c.GetHeader(headerSignature),
		RawBody:    body,
		Headers:    headers,
		RemoteAddr: c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		ReceivedAt: time.Now().UTC(),
	}, nil
}
