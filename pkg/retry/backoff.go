// Package retry provides backoff algorithm implementations
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes the wait before resubscribing after a failure.
// attempt is zero based, as handed to shooters.
type Backoff interface {
	NextDelay(attempt int) time.Duration
}

// BackoffFunc adapts a function to Backoff
type BackoffFunc func(attempt int) time.Duration

// NextDelay implements Backoff
func (f BackoffFunc) NextDelay(attempt int) time.Duration {
	return f(attempt)
}

// NoBackoff never waits
var NoBackoff Backoff = BackoffFunc(func(int) time.Duration { return 0 })

// FixedBackoff implements fixed backoff strategy
type FixedBackoff struct {
	delay  time.Duration
	jitter JitterFunc
}

// NewFixedBackoff creates a fixed backoff strategy
func NewFixedBackoff(delay time.Duration, opts ...BackoffOption) *FixedBackoff {
	cfg := newBackoffConfig(opts)
	return &FixedBackoff{
		delay:  delay,
		jitter: cfg.jitter,
	}
}

// NextDelay implements Backoff
func (b *FixedBackoff) NextDelay(attempt int) time.Duration {
	return applyJitter(b.delay, b.jitter)
}

// ExponentialBackoff implements exponential backoff strategy
type ExponentialBackoff struct {
	initialDelay time.Duration
	multiplier   float64
	maxDelay     time.Duration
	jitter       JitterFunc
}

// NewExponentialBackoff creates an exponential backoff strategy
func NewExponentialBackoff(initialDelay time.Duration, opts ...BackoffOption) *ExponentialBackoff {
	cfg := newBackoffConfig(opts)
	return &ExponentialBackoff{
		initialDelay: initialDelay,
		multiplier:   cfg.multiplier,
		maxDelay:     cfg.maxDelay,
		jitter:       cfg.jitter,
	}
}

// NextDelay implements Backoff: initialDelay * multiplier^attempt, capped
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	raw := float64(b.initialDelay) * math.Pow(b.multiplier, float64(attempt))
	delay := b.maxDelay
	if raw < float64(b.maxDelay) {
		delay = time.Duration(raw)
	}

	return applyJitter(delay, b.jitter)
}

// LinearBackoff implements linear backoff strategy
type LinearBackoff struct {
	initialDelay time.Duration
	increment    time.Duration
	maxDelay     time.Duration
	jitter       JitterFunc
}

// NewLinearBackoff creates a linear backoff strategy
func NewLinearBackoff(initialDelay, increment time.Duration, opts ...BackoffOption) *LinearBackoff {
	cfg := newBackoffConfig(opts)
	return &LinearBackoff{
		initialDelay: initialDelay,
		increment:    increment,
		maxDelay:     cfg.maxDelay,
		jitter:       cfg.jitter,
	}
}

// NextDelay implements Backoff: initialDelay + increment*attempt, capped
func (b *LinearBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := b.initialDelay + time.Duration(attempt)*b.increment
	if delay > b.maxDelay || delay < 0 {
		delay = b.maxDelay
	}

	return applyJitter(delay, b.jitter)
}

// JitterFunc jitter function type
type JitterFunc func(time.Duration) time.Duration

// FullJitter full jitter function - random within [0, delay) range
func FullJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(delay)))
}

// EqualJitter equal jitter function - delay/2 + random(0, delay/2)
func EqualJitter(delay time.Duration) time.Duration {
	half := delay / 2
	if half <= 0 {
		return delay
	}
	return half + time.Duration(rand.Int63n(int64(half)))
}

func applyJitter(delay time.Duration, jitter JitterFunc) time.Duration {
	if jitter == nil {
		return delay
	}
	return jitter(delay)
}

type backoffConfig struct {
	multiplier float64
	maxDelay   time.Duration
	jitter     JitterFunc
}

func newBackoffConfig(opts []BackoffOption) *backoffConfig {
	cfg := &backoffConfig{
		multiplier: 2.0,
		maxDelay:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// BackoffOption configures a backoff strategy
type BackoffOption func(*backoffConfig)

// WithMultiplier sets the growth factor of exponential backoff
func WithMultiplier(multiplier float64) BackoffOption {
	return func(c *backoffConfig) {
		if multiplier >= 1 {
			c.multiplier = multiplier
		}
	}
}

// WithMaxDelay sets maximum delay time
func WithMaxDelay(maxDelay time.Duration) BackoffOption {
	return func(c *backoffConfig) {
		if maxDelay > 0 {
			c.maxDelay = maxDelay
		}
	}
}

// WithJitter sets jitter function
func WithJitter(jitter JitterFunc) BackoffOption {
	return func(c *backoffConfig) {
		c.jitter = jitter
	}
}
