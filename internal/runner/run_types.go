package runner

import (
	"context"
	"io"
	"time"

	"fixbench/internal/fixture"
	"fixbench/internal/toolchain"
)

// Invoker runs the external toolchain for one fixture.
type Invoker interface {
	Invoke(ctx context.Context, fx fixture.Fixture) (toolchain.InvokeResult, error)
	Version(ctx context.Context) string
}

// InvokerFactory builds the toolchain invoker for a run.
type InvokerFactory func(opts toolchain.Options) Invoker

// RunDependencies allows injecting factories and clocks for a run.
type RunDependencies struct {
	InvokerFactory InvokerFactory
	RunID          func() (string, error)
	Now            func() time.Time
}

// RunParams configures a run invocation. Zero-valued overrides defer to
// the config.
type RunParams struct {
	Root          string
	WorkDir       string
	Workers       int
	Verbose       bool
	VerboseWriter io.Writer
	NoColor       bool
	Observer      RunObserver
	Deps          RunDependencies
}

// plannedFixture is one unit of work: a loaded fixture, or the record of a
// fixture that failed to load. Units keep the loader's lexical order.
type plannedFixture struct {
	name    string
	fx      fixture.Fixture
	loadErr error
}
