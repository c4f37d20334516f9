package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/errshot/pkg/retry"
	"github.com/jzx17/errshot/pkg/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Policy.MaxAttempts)
	assert.Equal(t, types.LevelInfo, cfg.DescribeLevel())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Breaker.Enabled)
}

func TestLoadFromReader(t *testing.T) {
	t.Setenv("ERRSHOT_TEST_ATTEMPTS", "7")

	cfg, err := LoadFromReader(strings.NewReader(`
logging:
  level: debug
  format: json
policy:
  max_attempts: ${ERRSHOT_TEST_ATTEMPTS}
  describe_level: ${ERRSHOT_TEST_UNSET_LEVEL:-warning}
backoff:
  kind: linear
  initial: 200ms
  increment: 100ms
  max: 1s
breaker:
  enabled: true
  max_failures: 4
  timeout: 10s
`))

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, 7, cfg.Policy.MaxAttempts)
	assert.Equal(t, types.LevelWarn, cfg.DescribeLevel())
	assert.Equal(t, 200*time.Millisecond, cfg.Backoff.Initial.Duration())
	assert.Equal(t, time.Second, cfg.Backoff.Max.Duration())
	assert.True(t, cfg.Breaker.Enabled)
	assert.Equal(t, uint32(4), cfg.Breaker.MaxFailures)
	assert.Equal(t, 10*time.Second, cfg.Breaker.Timeout.Duration())
	// untouched sections keep their defaults
	assert.Equal(t, 10.0, cfg.RateLimit.PerSecond)
}

func TestLoadFromReader_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"negative attempts", "policy:\n  max_attempts: -1\n", "max_attempts"},
		{"unknown level", "policy:\n  describe_level: loud\n", "describe_level"},
		{"unknown backoff", "backoff:\n  kind: random\n", "backoff.kind"},
		{"unknown jitter", "backoff:\n  jitter: lots\n", "backoff.jitter"},
		{"bad duration", "backoff:\n  initial: soon\n", "parse YAML"},
		{"breaker without failures", "breaker:\n  enabled: true\n  max_failures: 0\n", "breaker.max_failures"},
		{"rate limit without rate", "rate_limit:\n  enabled: true\n  per_second: 0\n", "rate_limit.per_second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Policy.MaxAttempts = -2
	cfg.Backoff.Kind = "random"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_attempts")
	assert.Contains(t, err.Error(), "backoff.kind")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy:\n  max_attempts: 0\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Policy.MaxAttempts)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildBackoff(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BackoffConfig
		attempt int
		want    time.Duration
	}{
		{"none", BackoffConfig{Kind: "none"}, 3, 0},
		{"empty", BackoffConfig{}, 3, 0},
		{"fixed", BackoffConfig{Kind: "fixed", Initial: Duration(time.Second)}, 3, time.Second},
		{"linear", BackoffConfig{Kind: "linear", Initial: Duration(time.Second), Increment: Duration(time.Second), Max: Duration(10 * time.Second)}, 2, 3 * time.Second},
		{"exponential", BackoffConfig{Kind: "Exponential", Initial: Duration(100 * time.Millisecond), Multiplier: 2}, 3, 800 * time.Millisecond},
		{"exponential capped", BackoffConfig{Kind: "exponential", Initial: Duration(time.Second), Max: Duration(2 * time.Second)}, 5, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.BuildBackoff().NextDelay(tt.attempt))
		})
	}

	t.Run("jitter", func(t *testing.T) {
		b := BackoffConfig{Kind: "fixed", Initial: Duration(time.Second), Jitter: "full"}.BuildBackoff()
		_, isFixed := b.(*retry.FixedBackoff)
		assert.True(t, isFixed)
		assert.Less(t, b.NextDelay(0), time.Second)
	})
}

func TestDuration_MarshalYAML(t *testing.T) {
	v, err := Duration(1500 * time.Millisecond).MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", v)
}
