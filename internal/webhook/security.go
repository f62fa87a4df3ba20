package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const signaturePrefix = "sha256="

// GitHub sends lowercase hex; anything else is rejected before hashing.
var signaturePattern = regexp.MustCompile(`^sha256=[0-9a-f]{64}$`)

// VerifySignature reports whether signatureHeader is the HMAC-SHA256 of payload
// keyed by secret. payload must be the request body exactly as received.
func VerifySignature(payload []byte, signatureHeader, secret string) bool {
	if secret == "" || !signaturePattern.MatchString(signatureHeader) {
		return false
	}

	received, err := hex.DecodeString(signatureHeader[len(signaturePrefix):])
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	return hmac.Equal(received, mac.Sum(nil))
}

// SignPayload returns the X-Hub-Signature-256 header value GitHub would send for payload.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// SecurityValidator validates webhook requests
type SecurityValidator struct {
	config      SecurityConfig
	allowedNets []*net.IPNet
	rateLimiter *rateLimiter
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	v := &SecurityValidator{config: config}

	for _, allowed := range config.AllowedIPs {
		if !strings.Contains(allowed, "/") {
			continue
		}
		if _, ipNet, err := net.ParseCIDR(allowed); err == nil {
			v.allowedNets = append(v.allowedNets, ipNet)
		}
	}

	if config.RateLimitPerMin > 0 {
		v.rateLimiter = newRateLimiter(config.RateLimitPerMin)
	}

	return v
}

// ValidateGitHubSignature verifies GitHub webhook signature
func (v *SecurityValidator) ValidateGitHubSignature(payload []byte, signature string) error {
	if !VerifySignature(payload, signature, v.config.Secret) {
		return ErrInvalidSignature
	}
	return nil
}

// ValidateIPAddress checks if the client IP is allowed. An empty allow-list allows everything.
func (v *SecurityValidator) ValidateIPAddress(ip string) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil
	}

	for _, allowedIP := range v.config.AllowedIPs {
		if ip == allowedIP {
			return nil
		}
	}

	parsed := net.ParseIP(ip)
	if parsed != nil {
		for _, ipNet := range v.allowedNets {
			if ipNet.Contains(parsed) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s", ErrSourceNotAllowed, ip)
}

// CheckRateLimit enforces rate limiting per source key
func (v *SecurityValidator) CheckRateLimit(source string) error {
	if v.rateLimiter == nil {
		return nil
	}
	return v.rateLimiter.Allow(source)
}

// rateLimiter keeps one token bucket per source; idle sources expire after 5 minutes.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}

	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,          // Max 1000 unique sources
			nil,           // No eviction callback
			time.Minute*5, // TTL: 5 minutes
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0), // Per second
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("%w for %s", ErrRateLimited, key)
	}
	return nil
}
