package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment.Name)
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, "s3cret", cfg.Webhook.Secret)
	assert.Equal(t, 0, cfg.Webhook.RateLimitPerMin)
	assert.Equal(t, int64(25<<20), cfg.Webhook.MaxBodyBytes)
	assert.Empty(t, cfg.Webhook.AllowedIPs)

	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "logs/webhooks", cfg.Audit.Dir)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)
	assert.Equal(t, 24*time.Hour, cfg.Audit.CleanupInterval)

	assert.True(t, cfg.Idempotency.Enabled)
	assert.Equal(t, IdempotencyBackendMemory, cfg.Idempotency.Backend)
	assert.Equal(t, 7*24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Idempotency.Timeout)

	assert.Equal(t, DispatchModeBackground, cfg.Dispatch.Mode)
	assert.Equal(t, 300*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, "WEBHOOKS", cfg.NATS.Stream)
	assert.False(t, cfg.UsesNATS())
}

func TestLoad_GitHubSecretFallback(t *testing.T) {
	t.Setenv("GITHUB_WEBHOOK_SECRET", "from-github-env")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "from-github-env", cfg.Webhook.Secret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("WEBHOOK_ALLOWED_IPS", "140.82.112.0/20, 192.30.252.0/22")
	t.Setenv("AUDIT_DIR", "/var/log/webhooks")
	t.Setenv("DISPATCH_MODE", "queue")
	t.Setenv("IDEMPOTENCY_BACKEND", "nats")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"140.82.112.0/20", "192.30.252.0/22"}, cfg.Webhook.AllowedIPs)
	assert.Equal(t, "/var/log/webhooks", cfg.Audit.Dir)
	assert.True(t, cfg.UsesNATS())
}

func TestLoad_File(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
webhook:
  secret: from-file
  allowed_ips:
    - 10.0.0.0/8
  rate_limit_per_min: 120
audit:
  retention_days: 7
idempotency:
  backend: postgre
postgres:
  dsn: postgres://localhost/quality
analysis:
  timeout: 2m
`)))

	cfg, err := load(v)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Webhook.Secret)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Webhook.AllowedIPs)
	assert.Equal(t, 120, cfg.Webhook.RateLimitPerMin)
	assert.Equal(t, 7, cfg.Audit.RetentionDays)
	assert.Equal(t, IdempotencyBackendPostgre, cfg.Idempotency.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Analysis.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing secret", env: map[string]string{"WEBHOOK_SECRET": "", "GITHUB_WEBHOOK_SECRET": ""}, want: "webhook.secret"},
		{name: "retention too low", env: map[string]string{"AUDIT_RETENTION_DAYS": "0"}, want: "audit.retention_days"},
		{name: "retention too high", env: map[string]string{"AUDIT_RETENTION_DAYS": "400"}, want: "audit.retention_days"},
		{name: "analysis timeout too short", env: map[string]string{"ANALYSIS_TIMEOUT": "5s"}, want: "analysis.timeout"},
		{name: "analysis timeout too long", env: map[string]string{"ANALYSIS_TIMEOUT": "2h"}, want: "analysis.timeout"},
		{name: "unknown backend", env: map[string]string{"IDEMPOTENCY_BACKEND": "redis"}, want: "idempotency.backend"},
		{name: "postgre without dsn", env: map[string]string{"IDEMPOTENCY_BACKEND": "postgre"}, want: "postgres.dsn"},
		{name: "unknown dispatch mode", env: map[string]string{"DISPATCH_MODE": "kafka"}, want: "dispatch.mode"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("WEBHOOK_SECRET", "s3cret")
			for k, val := range tc.env {
				t.Setenv(k, val)
			}

			_, err := load(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
