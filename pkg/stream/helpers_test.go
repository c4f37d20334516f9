package stream

import (
	"github.com/jzx17/errshot/pkg/types"
)

type errorStub struct{}

func (errorStub) Error() string { return "error stub" }

type anotherErrorStub struct{}

func (anotherErrorStub) Error() string { return "another error stub" }

func (anotherErrorStub) Message(types.Level) (string, bool) { return "Error", true }

type richError struct {
	retry bool
}

func (e *richError) Error() string { return "rich error" }

func (e *richError) CanRetry() bool { return e.retry }
