package webhook

import "errors"

var (
	ErrMissingHeader    = errors.New("missing required header")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrSourceNotAllowed = errors.New("source address not allowed")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrInvalidJSON      = errors.New("invalid JSON payload")
	ErrInvalidPayload   = errors.New("invalid payload structure")
	ErrDispatchFailed   = errors.New("event could not be queued for processing")
)
