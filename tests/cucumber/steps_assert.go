package cucumber

import (
	"fmt"
	"strings"
)

// theExitCodeIsZero asserts the CLI succeeded.
func (s *featureState) theExitCodeIsZero() error {
	if s.exitCode != 0 {
		return fmt.Errorf("expected exit code 0, got %d (stderr: %s)", s.exitCode, s.stderr.String())
	}
	return nil
}

// theExitCodeIsNonZero asserts that the CLI returned an error code.
func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected non-zero exit code (stdout: %s)", s.stdout.String())
	}
	return nil
}

// theOutputReports asserts stdout contains the expected text.
func (s *featureState) theOutputReports(text string) error {
	if !strings.Contains(s.stdout.String(), text) {
		return fmt.Errorf("expected %q in output, got %q", text, s.stdout.String())
	}
	return nil
}

// theOutputMentionsFixture asserts stdout names a fixture.
func (s *featureState) theOutputMentionsFixture(name string) error {
	return s.theOutputReports(name)
}

// theErrorOutputMentionsFixture asserts stderr names a fixture.
func (s *featureState) theErrorOutputMentionsFixture(name string) error {
	if !strings.Contains(s.stderr.String(), name) {
		return fmt.Errorf("expected %q in error output, got %q", name, s.stderr.String())
	}
	return nil
}
