package dispatch

import "errors"

var (
	ErrQueueFull    = errors.New("dispatch queue is full")
	ErrStopped      = errors.New("dispatcher is shut down")
	ErrJobTimeout   = errors.New("job exceeded its time limit")
	ErrMalformedJob = errors.New("malformed job")
)
