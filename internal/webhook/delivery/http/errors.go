package http

import (
	"errors"
	"net/http"

	"quality-agent/internal/payload"
	"quality-agent/internal/webhook"
)

type missingHeaderError struct{ name string }

func (e missingHeaderError) Error() string { return "missing required header: " + e.name }
func (e missingHeaderError) Unwrap() error { return webhook.ErrMissingHeader }

// mapError translates use-case errors into a status code and response detail.
func (h *handler) mapError(err error) (int, string) {
	var missing missingHeaderError
	if errors.As(err, &missing) {
		return http.StatusUnprocessableEntity, "Missing required header: " + missing.name
	}

	switch {
	case errors.Is(err, webhook.ErrInvalidSignature):
		return http.StatusUnauthorized, "Invalid webhook signature"
	case errors.Is(err, webhook.ErrSourceNotAllowed):
		return http.StatusForbidden, "Source address not allowed"
	case errors.Is(err, webhook.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, webhook.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "Payload too large"
	case errors.Is(err, webhook.ErrInvalidJSON):
		return http.StatusBadRequest, "Invalid JSON payload"
	case errors.Is(err, webhook.ErrInvalidPayload):
		var verr *payload.ValidationError
		if errors.As(err, &verr) {
			return http.StatusBadRequest, "Invalid payload structure: " + verr.Error()
		}
		return http.StatusBadRequest, "Invalid payload structure"
	case errors.Is(err, webhook.ErrDispatchFailed):
		return http.StatusServiceUnavailable, "Event could not be queued for processing"
	default:
		return http.StatusInternalServerError, ""
	}
}
