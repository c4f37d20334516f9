package retry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/errshot/internal/testutils"
	"github.com/jzx17/errshot/pkg/types"
)

type recordingHandler struct {
	mu       sync.Mutex
	delays   []time.Duration
	giveUps  []types.Attempt
	lastErrs []error
}

func (h *recordingHandler) OnRetryScheduled(_ context.Context, _ types.Attempt, delay time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.delays = append(h.delays, delay)
	h.lastErrs = append(h.lastErrs, err)
}

func (h *recordingHandler) OnGiveUp(_ context.Context, attempt types.Attempt, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.giveUps = append(h.giveUps, attempt)
	h.lastErrs = append(h.lastErrs, err)
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debugf(format string, args ...interface{}) {
	l.lines = append(l.lines, "debug: "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Infof(format string, args ...interface{}) {
	l.lines = append(l.lines, "info: "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.lines = append(l.lines, "warn: "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.lines = append(l.lines, "error: "+fmt.Sprintf(format, args...))
}

func TestDefaultRetryCondition(t *testing.T) {
	assert.False(t, DefaultRetryCondition(nil))
	assert.False(t, DefaultRetryCondition(errors.New("plain")))
	assert.False(t, DefaultRetryCondition(context.Canceled))
	assert.False(t, DefaultRetryCondition(types.NewRetryableError(context.DeadlineExceeded, true)))
	assert.True(t, DefaultRetryCondition(types.NewRetryableError(errors.New("busy"), true)))
	assert.False(t, DefaultRetryCondition(types.NewRetryableError(errors.New("bad request"), false)))
	assert.True(t, AlwaysRetry(errors.New("anything")))
}

func TestShooter_Decisions(t *testing.T) {
	retryable := types.NewRetryableError(errors.New("busy"), true)
	permanent := errors.New("permanent")

	tests := []struct {
		name    string
		policy  Policy
		err     error
		attempt types.Attempt
		want    types.ShotKind
	}{
		{"retries under the cap", Policy{MaxRetries: 2}, retryable, 0, types.ShotMiss},
		{"retries up to the cap", Policy{MaxRetries: 2}, retryable, 1, types.ShotMiss},
		{"gives up at the cap", Policy{MaxRetries: 2}, retryable, 2, types.ShotHit},
		{"gives up on non retryable", Policy{MaxRetries: 2}, permanent, 0, types.ShotHit},
		{"custom condition", Policy{MaxRetries: 2, Condition: AlwaysRetry}, permanent, 0, types.ShotMiss},
		{"sinks on give up", Policy{MaxRetries: 1, SinkOnGiveUp: true}, retryable, 1, types.ShotSink},
		{"zero retries", Policy{}, retryable, 0, types.ShotHit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Shooter[error](tt.policy)(context.Background(), tt.err, tt.attempt)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Kind())
			if tt.want == types.ShotHit {
				assert.Same(t, tt.err, got.Err())
			}
		})
	}
}

func TestShooter_ReportsEvents(t *testing.T) {
	handler := &recordingHandler{}
	backoff := BackoffFunc(func(attempt int) time.Duration { return 0 })
	shooter := Shooter[error](Policy{MaxRetries: 1, Backoff: backoff, Condition: AlwaysRetry}, WithEventHandler(handler))
	boom := errors.New("boom")

	first, err := shooter(context.Background(), boom, 0)
	require.NoError(t, err)
	second, err := shooter(context.Background(), boom, 1)
	require.NoError(t, err)

	assert.Equal(t, types.ShotMiss, first.Kind())
	assert.Equal(t, types.ShotHit, second.Kind())
	assert.Equal(t, []time.Duration{0}, handler.delays)
	assert.Equal(t, []types.Attempt{1}, handler.giveUps)
}

func TestShooter_WaitUsesClock(t *testing.T) {
	mock := testutils.NewMockClock(t)
	tc := testutils.NewTestContext(t, time.Second)

	shooter := Shooter[error](Policy{
		MaxRetries: 3,
		Backoff:    NewFixedBackoff(time.Hour),
		Condition:  AlwaysRetry,
	}, WithClock(testutils.NewClockWrapper(mock)))

	ctx, cancel := context.WithCancel(tc.Context())
	done := make(chan error, 1)
	go func() {
		_, err := shooter(ctx, errors.New("boom"), 0)
		done <- err
	}()

	// the mock clock never reaches an hour; only cancellation ends the wait
	select {
	case err := <-done:
		t.Fatalf("wait ended early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "retry wait interrupted")
}

func TestShooter_ClockFromContext(t *testing.T) {
	mock := testutils.NewMockClock(t)
	ctx, cancel := context.WithCancel(testutils.WithMockClock(context.Background(), mock))

	shooter := Shooter[error](Policy{MaxRetries: 1, Backoff: NewFixedBackoff(time.Minute), Condition: AlwaysRetry})

	cancel()
	_, err := shooter(ctx, errors.New("boom"), 0)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultEventHandler(t *testing.T) {
	logger := &recordingLogger{}
	handler := NewDefaultEventHandler(logger)
	boom := errors.New("boom")

	handler.OnRetryScheduled(context.Background(), 0, time.Second, boom)
	handler.OnGiveUp(context.Background(), 2, boom)

	require.Len(t, logger.lines, 2)
	assert.Equal(t, "debug: retry #1 in 1s after: boom", logger.lines[0])
	assert.Equal(t, "warn: giving up after 3 attempts: boom", logger.lines[1])

	// a nil logger is tolerated
	NewDefaultEventHandler(nil).OnGiveUp(context.Background(), 0, boom)
}
