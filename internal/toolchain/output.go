package toolchain

import "time"

// RawOutput captures one toolchain invocation verbatim. It is passed by
// value to the diagnostic parser; the invoker keeps no reference to it.
type RawOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Succeeded reports whether the tool exited cleanly.
func (o RawOutput) Succeeded() bool {
	return o.ExitCode == 0
}

// InvokeResult bundles the outputs of evaluating one fixture. Test is nil
// unless the fixture required a test run and the compile step succeeded.
type InvokeResult struct {
	Workspace string
	Build     RawOutput
	Test      *RawOutput
}
