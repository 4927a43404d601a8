package diagnose

import (
	"regexp"
	"strings"
)

// TestOutcome is the observed result of a single test.
type TestOutcome struct {
	Name    string
	Status  TestResultStatus
	Message string
}

// TestResultStatus classifies how a test finished.
type TestResultStatus string

const (
	TestResultPassed   TestResultStatus = "passed"
	TestResultFailed   TestResultStatus = "failed"
	TestResultPanicked TestResultStatus = "panicked"
)

// testLinePattern matches a test-runner result line, e.g.
// "test tests::test_factorial ... ok".
var testLinePattern = regexp.MustCompile(`^test ([\w:]+) \.\.\. (ok|FAILED|ignored)$`)

// failureHeaderPattern matches the start of a failure detail block, e.g.
// "---- tests::test_factorial stdout ----".
var failureHeaderPattern = regexp.MustCompile(`^---- ([\w:]+) stdout ----$`)

// ParseTestOutput parses test-runner output into per-test outcomes in
// emission order. Failure detail blocks upgrade failed tests that panicked
// and attach the panic message. Ignored tests are dropped: they neither
// passed nor failed, and expectations never reference them.
func ParseTestOutput(output string) ([]TestOutcome, Stats) {
	outcomes := make([]TestOutcome, 0)
	byName := map[string]int{}
	stats := Stats{}

	var detailName string
	var detailLines []string
	flushDetail := func() {
		if detailName == "" {
			return
		}
		if idx, ok := byName[detailName]; ok {
			message := strings.TrimSpace(strings.Join(detailLines, "\n"))
			outcomes[idx].Message = message
			if strings.Contains(message, "panicked") && outcomes[idx].Status == TestResultFailed {
				outcomes[idx].Status = TestResultPanicked
			}
		}
		detailName = ""
		detailLines = nil
	}

	for _, line := range strings.Split(output, "\n") {
		if match := testLinePattern.FindStringSubmatch(line); match != nil {
			flushDetail()
			if match[2] == "ignored" {
				continue
			}
			status := TestResultPassed
			if match[2] == "FAILED" {
				status = TestResultFailed
			}
			byName[match[1]] = len(outcomes)
			outcomes = append(outcomes, TestOutcome{Name: match[1], Status: status})
			continue
		}
		if match := failureHeaderPattern.FindStringSubmatch(line); match != nil {
			flushDetail()
			detailName = match[1]
			continue
		}
		if detailName != "" {
			if isTestChrome(line) {
				flushDetail()
				continue
			}
			detailLines = append(detailLines, line)
			continue
		}
		if isTestChrome(line) {
			continue
		}
		if strings.TrimSpace(line) != "" {
			stats.UnparsedLines++
		}
	}
	flushDetail()
	return outcomes, stats
}

// isTestChrome reports whether a line is test-runner framing rather than a
// per-test result (run headers, summaries, failure lists).
func isTestChrome(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "running "):
		return true
	case strings.HasPrefix(trimmed, "test result:"):
		return true
	case trimmed == "failures:":
		return true
	case strings.HasPrefix(trimmed, "Running "), strings.HasPrefix(trimmed, "Compiling "),
		strings.HasPrefix(trimmed, "Finished "), strings.HasPrefix(trimmed, "Doc-tests "):
		return true
	default:
		// Indented entries under the failures list, e.g. "    tests::test_x".
		return strings.HasPrefix(line, "    ") && !strings.Contains(trimmed, " ")
	}
}
