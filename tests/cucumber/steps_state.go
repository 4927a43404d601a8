package cucumber

import (
	"bytes"
	"context"
	"os"

	"github.com/cucumber/godog"
)

// featureState holds scenario state for cucumber CLI tests.
type featureState struct {
	projectDir  string
	configPath  string
	previousWD  string
	stdout      bytes.Buffer
	stderr      bytes.Buffer
	exitCode    int
	initialized bool
}

// InitializeScenario wires cucumber steps to the feature state.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^a project with a fixture expecting a clean compile$`, state.aProjectWithCleanCompileFixture)
	ctx.Step(`^a project with a fixture expecting a compile error$`, state.aProjectWithCompileErrorFixture)
	ctx.Step(`^a fixture "([^"]+)" with an unreadable manifest$`, state.aFixtureWithUnreadableManifest)
	ctx.Step(`^the toolchain reports a clean compile$`, state.theToolchainReportsCleanCompile)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the exit code is zero$`, state.theExitCodeIsZero)
	ctx.Step(`^the exit code is non-zero$`, state.theExitCodeIsNonZero)
	ctx.Step(`^the output reports "([^"]+)"$`, state.theOutputReports)
	ctx.Step(`^the output mentions the fixture "([^"]+)"$`, state.theOutputMentionsFixture)
	ctx.Step(`^the error output mentions the fixture "([^"]+)"$`, state.theErrorOutputMentionsFixture)
}

// reset clears buffers before each scenario.
func (s *featureState) reset() {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.projectDir = ""
	s.configPath = ""
	s.initialized = false
}

// cleanup restores the working directory and removes temporary files.
func (s *featureState) cleanup() {
	if s.previousWD != "" {
		_ = os.Chdir(s.previousWD)
		s.previousWD = ""
	}
	if s.projectDir != "" {
		_ = os.RemoveAll(s.projectDir)
	}
}
