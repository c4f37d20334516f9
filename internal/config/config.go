// Package config loads YAML configuration for error shooting chains
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jzx17/errshot/internal/logging"
	"github.com/jzx17/errshot/pkg/retry"
	"github.com/jzx17/errshot/pkg/types"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Duration is a time.Duration written as "300ms", "2s" in YAML
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the value as time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration
type Config struct {
	Logging   logging.Config  `yaml:"logging"`
	Policy    PolicyConfig    `yaml:"policy"`
	Backoff   BackoffConfig   `yaml:"backoff"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// PolicyConfig configures retry-then-sink and the retry shooter
type PolicyConfig struct {
	// MaxAttempts caps retries of retriable failures; 0 sinks right away
	MaxAttempts int `yaml:"max_attempts"`
	// DescribeLevel is the detail level logged for describable errors
	DescribeLevel string `yaml:"describe_level"`
}

// BackoffConfig selects a backoff strategy
type BackoffConfig struct {
	// Kind is none, fixed, linear or exponential
	Kind       string   `yaml:"kind"`
	Initial    Duration `yaml:"initial"`
	Increment  Duration `yaml:"increment"`
	Max        Duration `yaml:"max"`
	Multiplier float64  `yaml:"multiplier"`
	// Jitter is none, full or equal
	Jitter string `yaml:"jitter"`
}

// BreakerConfig configures the circuit breaker shooter
type BreakerConfig struct {
	Enabled bool     `yaml:"enabled"`
	Name    string   `yaml:"name"`
	// MaxFailures is the consecutive failure count that opens the breaker
	MaxFailures uint32   `yaml:"max_failures"`
	Timeout     Duration `yaml:"timeout"`
}

// RateLimitConfig paces resubscriptions
type RateLimitConfig struct {
	Enabled   bool    `yaml:"enabled"`
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// TracingConfig toggles span creation for shooter decisions
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		Policy: PolicyConfig{
			MaxAttempts:   3,
			DescribeLevel: "info",
		},
		Backoff: BackoffConfig{
			Kind:       "exponential",
			Initial:    Duration(100 * time.Millisecond),
			Max:        Duration(2 * time.Second),
			Multiplier: 2.0,
		},
		Breaker: BreakerConfig{
			Name:        "errshot",
			MaxFailures: 5,
			Timeout:     Duration(30 * time.Second),
		},
		RateLimit: RateLimitConfig{
			PerSecond: 10,
			Burst:     1,
		},
		Tracing: TracingConfig{
			ServiceName: "errshot",
		},
	}
}

// Load loads configuration from a file path
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader loads configuration from an io.Reader over the defaults
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(substituteEnvVars(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} with environment values
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}
		if value, exists := os.LookupEnv(submatches[1]); exists {
			return value
		}
		if len(submatches) >= 3 {
			return submatches[2]
		}
		return ""
	})
}

// Validate checks the configuration for contradictions
func (c *Config) Validate() error {
	var errs []error

	if c.Policy.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("policy.max_attempts must not be negative, got %d", c.Policy.MaxAttempts))
	}
	if _, err := types.ParseLevel(c.Policy.DescribeLevel); err != nil {
		errs = append(errs, fmt.Errorf("policy.describe_level: %w", err))
	}

	switch strings.ToLower(c.Backoff.Kind) {
	case "", "none", "fixed", "linear", "exponential":
	default:
		errs = append(errs, fmt.Errorf("backoff.kind: unknown kind %q", c.Backoff.Kind))
	}
	switch strings.ToLower(c.Backoff.Jitter) {
	case "", "none", "full", "equal":
	default:
		errs = append(errs, fmt.Errorf("backoff.jitter: unknown jitter %q", c.Backoff.Jitter))
	}
	if c.Backoff.Initial < 0 || c.Backoff.Max < 0 || c.Backoff.Increment < 0 {
		errs = append(errs, errors.New("backoff durations must not be negative"))
	}

	if c.Breaker.Enabled && c.Breaker.MaxFailures == 0 {
		errs = append(errs, errors.New("breaker.max_failures must be positive when enabled"))
	}
	if c.RateLimit.Enabled && c.RateLimit.PerSecond <= 0 {
		errs = append(errs, errors.New("rate_limit.per_second must be positive when enabled"))
	}

	return errors.Join(errs...)
}

// DescribeLevel returns the parsed describe level
func (c *Config) DescribeLevel() types.Level {
	level, err := types.ParseLevel(c.Policy.DescribeLevel)
	if err != nil {
		return types.LevelInfo
	}
	return level
}

// BuildBackoff builds the configured backoff strategy
func (b BackoffConfig) BuildBackoff() retry.Backoff {
	var opts []retry.BackoffOption
	if b.Max > 0 {
		opts = append(opts, retry.WithMaxDelay(b.Max.Duration()))
	}
	if b.Multiplier > 0 {
		opts = append(opts, retry.WithMultiplier(b.Multiplier))
	}
	switch strings.ToLower(b.Jitter) {
	case "full":
		opts = append(opts, retry.WithJitter(retry.FullJitter))
	case "equal":
		opts = append(opts, retry.WithJitter(retry.EqualJitter))
	}

	switch strings.ToLower(b.Kind) {
	case "fixed":
		return retry.NewFixedBackoff(b.Initial.Duration(), opts...)
	case "linear":
		return retry.NewLinearBackoff(b.Initial.Duration(), b.Increment.Duration(), opts...)
	case "exponential":
		return retry.NewExponentialBackoff(b.Initial.Duration(), opts...)
	default:
		return retry.NoBackoff
	}
}
