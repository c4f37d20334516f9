package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShot(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name     string
		shot     Shot
		wantKind ShotKind
		wantErr  error
		wantStr  string
	}{
		{"miss", Miss(), ShotMiss, nil, "miss"},
		{"sink", Sink(), ShotSink, nil, "sink"},
		{"hit", Hit(boom), ShotHit, boom, "hit(boom)"},
		{"hit nil", Hit(nil), ShotHit, ErrNilHit, "hit(hit without error)"},
		{"zero value", Shot{}, ShotMiss, nil, "miss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.shot.Kind())
			assert.Equal(t, tt.wantErr, tt.shot.Err())
			assert.Equal(t, tt.wantStr, tt.shot.String())
		})
	}
}

func TestShotKindString(t *testing.T) {
	assert.Equal(t, "miss", ShotMiss.String())
	assert.Equal(t, "hit", ShotHit.String())
	assert.Equal(t, "sink", ShotSink.String())
	assert.Equal(t, "unknown", ShotKind(42).String())
}

func TestOutcomeString(t *testing.T) {
	outcomes := map[Outcome]string{
		OutcomeCompleted: "completed",
		OutcomeSunk:      "sunk",
		OutcomeHit:       "hit",
		OutcomePassed:    "passed",
		OutcomeCanceled:  "canceled",
		Outcome(99):      "unknown",
	}
	for outcome, want := range outcomes {
		assert.Equal(t, want, outcome.String())
	}
}
