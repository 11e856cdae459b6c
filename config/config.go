// Package config provides engine configuration: defaults, YAML file loading,
// and environment variable overrides.
//
// Precedence: defaults -> YAML file -> environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that round-trips through YAML as a Go duration
// string ("30s", "5m"). Plain integers are accepted as nanoseconds.
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(v)
	case int64:
		*d = Duration(v)
	case float64:
		*d = Duration(int64(v))
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// Config is the engine configuration. Per-workflow values in a definition's
// OrchestrationConfig take precedence over these defaults.
type Config struct {
	// Engine defaults applied when a definition leaves them unset.
	Engine EngineConfig `yaml:"engine"`
	// Archive configures archiving of completed executions.
	Archive ArchiveConfig `yaml:"archive"`
	// Chat configures the LLM collaborator wrapper.
	Chat ChatConfig `yaml:"chat"`
	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// EngineConfig holds dispatcher defaults.
type EngineConfig struct {
	// DefaultTimeout bounds a run when the definition sets none. Zero
	// disables the default bound.
	DefaultTimeout Duration `yaml:"default_timeout"`
	// DefaultMaxConcurrent bounds concurrent node executions per run when
	// the definition sets none.
	DefaultMaxConcurrent int `yaml:"default_max_concurrent"`
	// DefaultMaxTurns bounds group-chat turns when the definition sets none.
	DefaultMaxTurns int `yaml:"default_max_turns"`
	// DefaultMaxHops bounds handoff walks when the definition sets none.
	DefaultMaxHops int `yaml:"default_max_hops"`
	// DefaultMaxPlanIterations bounds magentic planning rounds when the
	// definition sets none.
	DefaultMaxPlanIterations int `yaml:"default_max_plan_iterations"`
	// MetricsNamespace is the Prometheus namespace.
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// ArchiveConfig configures the completed-execution archive.
type ArchiveConfig struct {
	// Backend selects "none", "memory", or "redis".
	Backend string `yaml:"backend"`
	// MaxEntries bounds the memory backend.
	MaxEntries int `yaml:"max_entries"`
	// Redis settings for the redis backend.
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string   `yaml:"addr"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	KeyPrefix string   `yaml:"key_prefix"`
	TTL       Duration `yaml:"ttl"`
}

// ChatConfig configures the rate-limited chat client wrapper.
type ChatConfig struct {
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultTimeout:           Duration(5 * time.Minute),
			DefaultMaxConcurrent:     8,
			DefaultMaxTurns:          10,
			DefaultMaxHops:           32,
			DefaultMaxPlanIterations: 10,
			MetricsNamespace:         "weave",
		},
		Archive: ArchiveConfig{
			Backend:    "memory",
			MaxEntries: 1024,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "weave:",
				TTL:       Duration(24 * time.Hour),
			},
		},
		Chat: ChatConfig{
			RateLimitRPS:   10,
			RateLimitBurst: 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadFile loads configuration from a YAML file over the defaults, then
// applies environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// Load returns defaults with environment overrides applied.
func Load() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

// Environment variables use the WEAVE_ prefix. Every field has an override;
// malformed values are ignored and the previous value stands.
func (c *Config) applyEnv() {
	envDuration("WEAVE_DEFAULT_TIMEOUT", &c.Engine.DefaultTimeout)
	envInt("WEAVE_DEFAULT_MAX_CONCURRENT", &c.Engine.DefaultMaxConcurrent)
	envInt("WEAVE_DEFAULT_MAX_TURNS", &c.Engine.DefaultMaxTurns)
	envInt("WEAVE_DEFAULT_MAX_HOPS", &c.Engine.DefaultMaxHops)
	envInt("WEAVE_DEFAULT_MAX_PLAN_ITERATIONS", &c.Engine.DefaultMaxPlanIterations)
	envString("WEAVE_METRICS_NAMESPACE", &c.Engine.MetricsNamespace)

	envString("WEAVE_ARCHIVE_BACKEND", &c.Archive.Backend)
	envInt("WEAVE_ARCHIVE_MAX_ENTRIES", &c.Archive.MaxEntries)
	envString("WEAVE_REDIS_ADDR", &c.Archive.Redis.Addr)
	envString("WEAVE_REDIS_PASSWORD", &c.Archive.Redis.Password)
	envInt("WEAVE_REDIS_DB", &c.Archive.Redis.DB)
	envString("WEAVE_REDIS_KEY_PREFIX", &c.Archive.Redis.KeyPrefix)
	envDuration("WEAVE_REDIS_TTL", &c.Archive.Redis.TTL)

	envFloat("WEAVE_CHAT_RATE_LIMIT_RPS", &c.Chat.RateLimitRPS)
	envInt("WEAVE_CHAT_RATE_LIMIT_BURST", &c.Chat.RateLimitBurst)

	envString("WEAVE_LOG_LEVEL", &c.Log.Level)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(key string, dst *Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = Duration(d)
		}
	}
}
