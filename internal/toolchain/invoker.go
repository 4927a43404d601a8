package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"fixbench/internal/fixture"
)

// Commands holds the argv for each toolchain operation. The tool itself is
// a black box: anything that accepts a working directory and emits exit
// code plus textual diagnostics fits.
type Commands struct {
	Build []string
	Lint  []string
	Test  []string
}

// DefaultCommands returns the cargo-flavored defaults.
func DefaultCommands() Commands {
	return Commands{
		Build: []string{"cargo", "build", "--message-format", "json"},
		Lint:  []string{"cargo", "clippy", "--message-format", "json"},
		Test:  []string{"cargo", "test"},
	}
}

// commandRunner executes a toolchain command in a directory. Tests inject
// fakes; the default shells out.
type commandRunner interface {
	Run(ctx context.Context, dir string, argv []string) (RawOutput, error)
}

// execCommandRunner invokes the tool via the system binary.
type execCommandRunner struct{}

// Run executes argv in dir and captures exit code and output. A non-zero
// exit is a normal result, not an error; only spawn failures and context
// cancellation surface as errors.
func (execCommandRunner) Run(ctx context.Context, dir string, argv []string) (RawOutput, error) {
	if len(argv) == 0 {
		return RawOutput{}, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	output := RawOutput{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(started),
	}
	if err != nil {
		if ctx.Err() != nil {
			return output, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, err
	}
	return output, nil
}

// Invoker runs the external toolchain against fixtures in isolated
// workspaces. Safe for concurrent use: each invocation gets its own
// workspace and the Invoker itself holds no mutable state.
type Invoker struct {
	commands       Commands
	workRoot       string
	runID          string
	timeout        time.Duration
	keepWorkspaces bool
	runner         commandRunner
}

// Options configures an Invoker.
type Options struct {
	Commands       Commands
	WorkRoot       string
	RunID          string
	Timeout        time.Duration
	KeepWorkspaces bool
}

// NewInvoker constructs an Invoker with the system command runner.
func NewInvoker(opts Options) *Invoker {
	return newInvoker(opts, execCommandRunner{})
}

// newInvoker allows tests to substitute the command runner.
func newInvoker(opts Options, runner commandRunner) *Invoker {
	commands := opts.Commands
	if len(commands.Build) == 0 {
		commands = DefaultCommands()
	}
	return &Invoker{
		commands:       commands,
		workRoot:       opts.WorkRoot,
		runID:          opts.RunID,
		timeout:        opts.Timeout,
		keepWorkspaces: opts.KeepWorkspaces,
		runner:         runner,
	}
}

// Invoke evaluates one fixture: materializes its workspace, runs the
// compile (or lint) step, and, when the fixture declares test
// expectations and the compile succeeded, the test runner. The workspace
// is removed on every exit path unless KeepWorkspaces was set.
func (inv *Invoker) Invoke(ctx context.Context, fx fixture.Fixture) (InvokeResult, error) {
	workspace, err := materializeWorkspace(inv.workRoot, inv.runID, fx)
	if err != nil {
		return InvokeResult{}, &InvocationError{Fixture: fx.Name, Command: "workspace", Err: err}
	}
	if !inv.keepWorkspaces {
		defer func() { _ = removeWorkspace(workspace) }()
	}

	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	buildCmd := inv.commands.Build
	if fx.NeedsLint() {
		buildCmd = inv.commands.Lint
	}
	result := InvokeResult{Workspace: workspace}
	result.Build, err = inv.runner.Run(ctx, workspace, buildCmd)
	if err != nil {
		return result, inv.classify(ctx, fx, buildCmd, err)
	}

	if fx.NeedsTestRun() && result.Build.Succeeded() {
		testOut, err := inv.runner.Run(ctx, workspace, inv.commands.Test)
		if err != nil {
			return result, inv.classify(ctx, fx, inv.commands.Test, err)
		}
		result.Test = &testOut
	}
	return result, nil
}

// Version reports the toolchain's version line for run metadata.
func (inv *Invoker) Version(ctx context.Context) string {
	if len(inv.commands.Build) == 0 {
		return ""
	}
	output, err := inv.runner.Run(ctx, "", []string{inv.commands.Build[0], "--version"})
	if err != nil || !output.Succeeded() {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(output.Stdout, "\n", 2)[0])
}

// classify maps a runner error to the fixture-scoped error taxonomy.
func (inv *Invoker) classify(ctx context.Context, fx fixture.Fixture, argv []string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == context.DeadlineExceeded {
		return &TimeoutError{Fixture: fx.Name, Limit: inv.timeout}
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return &TimeoutError{Fixture: fx.Name, Limit: inv.timeout}
		}
		return fmt.Errorf("fixture %s cancelled: %w", fx.Name, ctxErr)
	}
	return &InvocationError{Fixture: fx.Name, Command: strings.Join(argv, " "), Err: err}
}
