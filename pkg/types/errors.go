// Package types defines error types
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Predefined errors
var (
	// ErrNilHit is carried by a hit built from a nil error
	ErrNilHit = errors.New("hit without error")

	// ErrShooterPanic indicates a shooter panicked instead of producing a shot
	ErrShooterPanic = errors.New("shooter panicked")

	// ErrNilShooter indicates an interception stage was built without a shooter
	ErrNilShooter = errors.New("shooter is nil")

	// ErrBreakerOpen indicates a circuit breaker refused further retries
	ErrBreakerOpen = errors.New("circuit breaker is open")
)

// Level is a level of detail for describing an error
type Level int

const (
	// LevelVerbose is the most detailed level
	LevelVerbose Level = iota
	// LevelDebug is the debug level
	LevelDebug
	// LevelInfo is the info level
	LevelInfo
	// LevelWarn is the warn level
	LevelWarn
	// LevelError is the error level
	LevelError
)

// String returns string representation of the level
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name, case insensitive
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelVerbose, fmt.Errorf("unknown level %q", s)
	}
}

// RetriableError is an error that knows whether retrying is sanctioned.
// CanRetry is read every time a decision is made, never cached.
type RetriableError interface {
	error
	CanRetry() bool
}

// DescribableError is an error described at several levels of detail.
// Message returns false when there is nothing to say at the given level.
type DescribableError interface {
	error
	Message(level Level) (string, bool)
}

// RetryableError represents a retryable error
type RetryableError struct {
	// Err is the underlying error
	Err error

	// Retryable indicates whether the error is retryable
	Retryable bool
}

// NewRetryableError wraps err with a retry flag
func NewRetryableError(err error, retryable bool) *RetryableError {
	return &RetryableError{Err: err, Retryable: retryable}
}

// Error implements the error interface
func (e *RetryableError) Error() string {
	if e.Err == nil {
		return "retryable error"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *RetryableError) Unwrap() error {
	return e.Err
}

// CanRetry implements RetriableError
func (e *RetryableError) CanRetry() bool {
	return e.Retryable
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var retriable RetriableError
	if errors.As(err, &retriable) {
		return retriable.CanRetry()
	}
	return false
}

// DescribedError attaches per-level messages to an error
type DescribedError struct {
	// Err is the underlying error
	Err error

	// Messages maps a level to its description
	Messages map[Level]string
}

// NewDescribedError creates a described error
func NewDescribedError(err error, messages map[Level]string) *DescribedError {
	return &DescribedError{Err: err, Messages: messages}
}

// Error implements the error interface
func (e *DescribedError) Error() string {
	if e.Err == nil {
		return "described error"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *DescribedError) Unwrap() error {
	return e.Err
}

// Message implements DescribableError
func (e *DescribedError) Message(level Level) (string, bool) {
	msg, ok := e.Messages[level]
	return msg, ok
}

// Describe returns the message of err at level if err is describable
func Describe(err error, level Level) (string, bool) {
	var describable DescribableError
	if errors.As(err, &describable) {
		return describable.Message(level)
	}
	return "", false
}

// HitError marks a failure elected by a hit. Interception stages further
// down a chain pass it through without consulting their shooters.
type HitError struct {
	// Err is the failure carried by the hit
	Err error

	// Stage is the name of the stage that elected the hit
	Stage string
}

// Error implements the error interface
func (e *HitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the carried failure
func (e *HitError) Unwrap() error {
	return e.Err
}

// StripHit returns the failure carried by a hit marker, or err unchanged
func StripHit(err error) error {
	var hit *HitError
	if errors.As(err, &hit) {
		return hit.Err
	}
	return err
}
