package toolchain

import (
	"fmt"
	"time"
)

// InvocationError reports that the external tool could not be started at
// all: missing binary, spawn failure, unreadable workspace. Scoped to one
// fixture.
type InvocationError struct {
	Fixture string
	Command string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s for fixture %s: %v", e.Command, e.Fixture, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that a fixture's toolchain invocation exceeded the
// configured per-fixture limit. The workspace is cleaned up before this
// error is returned.
type TimeoutError struct {
	Fixture string
	Limit   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fixture %s: toolchain invocation exceeded %s", e.Fixture, e.Limit)
}
