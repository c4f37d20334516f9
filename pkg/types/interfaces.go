// Package types defines core interfaces and types for error shooting
package types

import (
	"context"
)

// Source is a restartable producer of a linear, possibly infinite sequence.
//
// Every call to Subscribe runs production from scratch: nothing emitted by a
// previous subscription is replayed. Values are delivered in order through
// emit. Subscribe returns nil on completion and the failure otherwise. When
// emit returns an error the source must stop and return that error. The
// source must stop promptly once ctx is done.
type Source[T any] interface {
	Subscribe(ctx context.Context, emit func(T) error) error
}

// Outcome describes how one subscription of an interception stage ended
type Outcome int

const (
	// OutcomeCompleted the source completed without failure
	OutcomeCompleted Outcome = iota
	// OutcomeSunk a failure was sunk
	OutcomeSunk
	// OutcomeHit a failure was propagated by a hit
	OutcomeHit
	// OutcomePassed a failure did not match the target kind and was forwarded
	OutcomePassed
	// OutcomeCanceled the consumer canceled the subscription
	OutcomeCanceled
)

// String returns string representation of outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSunk:
		return "sunk"
	case OutcomeHit:
		return "hit"
	case OutcomePassed:
		return "passed"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Observer receives notifications from interception stages.
// Implementations must be safe for concurrent use.
type Observer interface {
	// ObserveShot is called once per shooter decision
	ObserveShot(stage string, attempt Attempt, shot Shot)

	// ObserveOutcome is called once when a stage subscription ends
	ObserveOutcome(stage string, outcome Outcome)
}

// Option defines a configuration option function
type Option[T any] func(T)
