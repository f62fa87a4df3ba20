package middleware

import (
	"quality-agent/pkg/log"
)

// Middleware holds the gin middlewares shared by every route.
type Middleware struct {
	l              log.Logger
	allowedOrigins []string
}

// New creates the middleware set. allowedOrigins restricts cross-origin callers.
func New(l log.Logger, allowedOrigins []string) Middleware {
	return Middleware{
		l:              l,
		allowedOrigins: allowedOrigins,
	}
}
