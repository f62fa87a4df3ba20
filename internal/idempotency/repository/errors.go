package repository

import "errors"

var (
	ErrFailedToGet    = errors.New("failed to get idempotency record")
	ErrFailedToPut    = errors.New("failed to put idempotency record")
	ErrFailedToDelete = errors.New("failed to delete idempotency records")
)
