// Package types defines the decision model shared by shooters and interception stages
package types

import "fmt"

// ShotKind identifies the active variant of a Shot
type ShotKind int

const (
	// ShotMiss resubscribes to the source sequence
	ShotMiss ShotKind = iota
	// ShotHit fails the sequence with the carried error
	ShotHit
	// ShotSink completes the sequence, discarding the error
	ShotSink
)

// String returns string representation of the kind
func (k ShotKind) String() string {
	switch k {
	case ShotMiss:
		return "miss"
	case ShotHit:
		return "hit"
	case ShotSink:
		return "sink"
	default:
		return "unknown"
	}
}

// Attempt is the zero based number of times one interception stage has
// consulted its shooter within a single subscription.
type Attempt = int

// Shot is the decision taken for one intercepted failure.
// The zero value is a miss. Build values with Miss, Hit or Sink.
type Shot struct {
	kind ShotKind
	err  error
}

// Miss asks the stage to run the source again
func Miss() Shot {
	return Shot{kind: ShotMiss}
}

// Hit asks the stage to fail with err. A nil err is replaced by ErrNilHit
// so that a hit always terminates the sequence with a failure.
func Hit(err error) Shot {
	if err == nil {
		err = ErrNilHit
	}
	return Shot{kind: ShotHit, err: err}
}

// Sink asks the stage to complete the sequence normally
func Sink() Shot {
	return Shot{kind: ShotSink}
}

// Kind returns the active variant
func (s Shot) Kind() ShotKind {
	return s.kind
}

// Err returns the error carried by a hit, nil otherwise
func (s Shot) Err() error {
	if s.kind != ShotHit {
		return nil
	}
	return s.err
}

// String returns string representation of the shot
func (s Shot) String() string {
	if s.kind == ShotHit {
		return fmt.Sprintf("hit(%v)", s.err)
	}
	return s.kind.String()
}
