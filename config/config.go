package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	IdempotencyBackendMemory  = "memory"
	IdempotencyBackendNATS    = "nats"
	IdempotencyBackendPostgre = "postgre"

	DispatchModeBackground = "background"
	DispatchModeQueue      = "queue"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Ingestion
	Webhook     WebhookConfig
	Audit       AuditConfig
	Idempotency IdempotencyConfig
	Dispatch    DispatchConfig
	Analysis    AnalysisConfig

	// Infrastructure
	NATS     NATSConfig
	Postgres PostgresConfig
	Metrics  MetricsConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type WebhookConfig struct {
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
	MaxBodyBytes    int64
}

type AuditConfig struct {
	Enabled         bool
	Dir             string
	RetentionDays   int
	CleanupInterval time.Duration
}

type IdempotencyConfig struct {
	Enabled    bool
	Backend    string
	TTL        time.Duration
	Timeout    time.Duration
	MemorySize int
}

type DispatchConfig struct {
	Mode      string
	Workers   int
	QueueSize int
}

type AnalysisConfig struct {
	Timeout time.Duration
}

type NATSConfig struct {
	URL        string
	Stream     string
	KVBucket   string
	Consumer   string
	MaxDeliver int
}

type PostgresConfig struct {
	DSN string
}

type MetricsConfig struct {
	Enabled bool
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return load(v)
}

// load reads every key from v. v may already hold a config file.
func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Webhooks
	cfg.Webhook.Secret = v.GetString("webhook.secret")
	if ghSecret := v.GetString("github_webhook_secret"); cfg.Webhook.Secret == "" && ghSecret != "" {
		cfg.Webhook.Secret = ghSecret
	}
	cfg.Webhook.RateLimitPerMin = v.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.MaxBodyBytes = v.GetInt64("webhook.max_body_bytes")
	cfg.Webhook.AllowedIPs = stringList(v, "webhook.allowed_ips")

	// Audit
	cfg.Audit.Enabled = v.GetBool("audit.enabled")
	cfg.Audit.Dir = v.GetString("audit.dir")
	cfg.Audit.RetentionDays = v.GetInt("audit.retention_days")
	cfg.Audit.CleanupInterval = v.GetDuration("audit.cleanup_interval")

	// Idempotency
	cfg.Idempotency.Enabled = v.GetBool("idempotency.enabled")
	cfg.Idempotency.Backend = v.GetString("idempotency.backend")
	cfg.Idempotency.TTL = v.GetDuration("idempotency.ttl")
	cfg.Idempotency.Timeout = v.GetDuration("idempotency.timeout")
	cfg.Idempotency.MemorySize = v.GetInt("idempotency.memory_size")

	// Dispatch & analysis
	cfg.Dispatch.Mode = v.GetString("dispatch.mode")
	cfg.Dispatch.Workers = v.GetInt("dispatch.workers")
	cfg.Dispatch.QueueSize = v.GetInt("dispatch.queue_size")
	cfg.Analysis.Timeout = v.GetDuration("analysis.timeout")

	// Infrastructure
	cfg.NATS.URL = v.GetString("nats.url")
	cfg.NATS.Stream = v.GetString("nats.stream")
	cfg.NATS.KVBucket = v.GetString("nats.kv_bucket")
	cfg.NATS.Consumer = v.GetString("nats.consumer")
	cfg.NATS.MaxDeliver = v.GetInt("nats.max_deliver")
	cfg.Postgres.DSN = v.GetString("postgres.dsn")
	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("webhook.secret", "")
	v.SetDefault("github_webhook_secret", "")
	v.SetDefault("webhook.allowed_ips", "")
	v.SetDefault("webhook.rate_limit_per_min", 0)
	v.SetDefault("webhook.max_body_bytes", 25<<20)

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.dir", "logs/webhooks")
	v.SetDefault("audit.retention_days", 30)
	v.SetDefault("audit.cleanup_interval", "24h")

	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.backend", IdempotencyBackendMemory)
	v.SetDefault("idempotency.ttl", "168h")
	v.SetDefault("idempotency.timeout", "500ms")
	v.SetDefault("idempotency.memory_size", 100000)

	v.SetDefault("dispatch.mode", DispatchModeBackground)
	v.SetDefault("dispatch.workers", 4)
	v.SetDefault("dispatch.queue_size", 256)
	v.SetDefault("analysis.timeout", "300s")

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.stream", "WEBHOOKS")
	v.SetDefault("nats.kv_bucket", "webhook-deliveries")
	v.SetDefault("nats.consumer", "analysis-processor")
	v.SetDefault("nats.max_deliver", 3)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("metrics.enabled", true)
}

func (cfg *Config) validate() error {
	if cfg.Webhook.Secret == "" {
		return fmt.Errorf("webhook.secret is required (set WEBHOOK_SECRET or GITHUB_WEBHOOK_SECRET)")
	}
	if cfg.Webhook.RateLimitPerMin < 0 {
		return fmt.Errorf("webhook.rate_limit_per_min must not be negative")
	}
	if cfg.Webhook.MaxBodyBytes <= 0 {
		return fmt.Errorf("webhook.max_body_bytes must be positive")
	}
	if cfg.Audit.RetentionDays < 1 || cfg.Audit.RetentionDays > 365 {
		return fmt.Errorf("audit.retention_days must be between 1 and 365, got %d", cfg.Audit.RetentionDays)
	}
	if cfg.Audit.CleanupInterval <= 0 {
		return fmt.Errorf("audit.cleanup_interval must be positive")
	}
	if cfg.Analysis.Timeout < 10*time.Second || cfg.Analysis.Timeout > time.Hour {
		return fmt.Errorf("analysis.timeout must be between 10s and 1h, got %s", cfg.Analysis.Timeout)
	}

	switch cfg.Idempotency.Backend {
	case IdempotencyBackendMemory:
		if cfg.Idempotency.MemorySize <= 0 {
			return fmt.Errorf("idempotency.memory_size must be positive")
		}
	case IdempotencyBackendNATS:
		if cfg.NATS.URL == "" {
			return fmt.Errorf("nats.url is required for idempotency backend %q", cfg.Idempotency.Backend)
		}
	case IdempotencyBackendPostgre:
		if cfg.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for idempotency backend %q", cfg.Idempotency.Backend)
		}
	default:
		return fmt.Errorf("unknown idempotency.backend %q", cfg.Idempotency.Backend)
	}
	if cfg.Idempotency.TTL <= 0 {
		return fmt.Errorf("idempotency.ttl must be positive")
	}

	switch cfg.Dispatch.Mode {
	case DispatchModeBackground:
		if cfg.Dispatch.Workers <= 0 || cfg.Dispatch.QueueSize <= 0 {
			return fmt.Errorf("dispatch.workers and dispatch.queue_size must be positive")
		}
	case DispatchModeQueue:
		if cfg.NATS.URL == "" {
			return fmt.Errorf("nats.url is required for dispatch mode %q", cfg.Dispatch.Mode)
		}
	default:
		return fmt.Errorf("unknown dispatch.mode %q", cfg.Dispatch.Mode)
	}

	return nil
}

// UsesNATS reports whether any configured component needs a NATS connection.
func (cfg *Config) UsesNATS() bool {
	return cfg.Dispatch.Mode == DispatchModeQueue ||
		(cfg.Idempotency.Enabled && cfg.Idempotency.Backend == IdempotencyBackendNATS)
}

// stringList accepts either a YAML list or a comma separated string (env vars).
func stringList(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).(string); ok {
		return splitList(raw)
	}
	return v.GetStringSlice(key)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
