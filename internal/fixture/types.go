package fixture

// ExpectationKind names the single declared outcome for a fixture.
type ExpectationKind string

const (
	// CompileOk expects a clean build with no error diagnostics.
	CompileOk ExpectationKind = "compile_ok"
	// CompileError expects the build to fail.
	CompileError ExpectationKind = "compile_error"
	// LintWarnings expects a set of lint warning codes to be emitted.
	LintWarnings ExpectationKind = "lint_warnings"
	// TestResults expects named tests to finish with declared statuses.
	TestResults ExpectationKind = "test_results"
)

// TestStatus is the expected or observed status of a single test.
type TestStatus string

const (
	TestPassed   TestStatus = "passed"
	TestFailed   TestStatus = "failed"
	TestPanicked TestStatus = "panicked"
)

// Manifest is the declared correct outcome for one fixture.
// Exactly one expectation kind applies; payload fields for other
// kinds must be absent.
type Manifest struct {
	Kind      ExpectationKind       `yaml:"expectation_kind"`
	Language  string                `yaml:"language"`
	Sources   []string              `yaml:"sources"`
	ErrorCode string                `yaml:"error_code"`
	LintCodes []string              `yaml:"lint_codes"`
	Tests     map[string]TestStatus `yaml:"tests"`
}

// Fixture couples a sample source project with its expectation manifest.
// Immutable once loaded; Index records load order for stable reporting.
type Fixture struct {
	Name     string
	Dir      string
	Index    int
	Manifest Manifest
}

// NeedsTestRun reports whether evaluating the fixture requires invoking
// the test runner after a successful compile.
func (f Fixture) NeedsTestRun() bool {
	return f.Manifest.Kind == TestResults
}

// NeedsLint reports whether the fixture should be built through the linter.
func (f Fixture) NeedsLint() bool {
	return f.Manifest.Kind == LintWarnings
}
