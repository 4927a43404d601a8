package verdict

import (
	"fmt"
	"sort"
	"strings"

	"fixbench/internal/diagnose"
	"fixbench/internal/fixture"
)

// MatchPolicy selects how lint-code expectations are compared.
type MatchPolicy string

const (
	// PolicySuperset accepts observed warning codes beyond the expected set.
	PolicySuperset MatchPolicy = "superset"
	// PolicyExact requires the observed warning codes to equal the expected set.
	PolicyExact MatchPolicy = "exact"
)

// MismatchKind groups mismatches for stable report ordering.
type MismatchKind string

const (
	// KindMissing covers expected items absent from the observed output:
	// tests that never ran, lint codes never emitted, error codes never seen.
	KindMissing MismatchKind = "missing"
	// KindStatus covers items present with the wrong outcome.
	KindStatus MismatchKind = "status"
	// KindHarness covers fixture-level failures of the harness itself:
	// load errors, spawn failures, timeouts.
	KindHarness MismatchKind = "harness"
	// KindUnparsed is the trailing note about unrecognized output lines.
	// It never flips a verdict; it is metadata carried in mismatch position.
	KindUnparsed MismatchKind = "unparsed"
)

// Mismatch is one discrepancy between an expectation and the observed outcome.
type Mismatch struct {
	Kind     MismatchKind `json:"kind"`
	Expected string       `json:"expected,omitempty"`
	Observed string       `json:"observed,omitempty"`
	Detail   string       `json:"detail"`
}

// Verdict is the terminal judgment for one fixture. It is created once per
// run and never mutated afterwards.
type Verdict struct {
	Fixture    string     `json:"fixture"`
	Matched    bool       `json:"matched"`
	Mismatches []Mismatch `json:"mismatches"`
}

// Input carries everything Evaluate needs. Evaluate is a pure function of
// this value; callers own I/O.
type Input struct {
	Fixture     fixture.Fixture
	ExitCode    int
	Diagnostics []diagnose.Diagnostic
	Tests       []diagnose.TestOutcome
	Unparsed    int
	Policy      MatchPolicy
}

// Evaluate compares observed diagnostics and test outcomes against the
// fixture's expectation manifest.
//
// Mismatches are ordered: missing expected items first, then wrong-status
// items, then the unparsed-lines note last. Within a group the manifest's
// declaration order is kept (test names sorted, since the manifest mapping
// is unordered). The unparsed note never affects Matched.
func Evaluate(in Input) Verdict {
	var missing, status []Mismatch
	manifest := in.Fixture.Manifest

	switch manifest.Kind {
	case fixture.CompileOk:
		if in.ExitCode != 0 || diagnose.CountErrors(in.Diagnostics) > 0 {
			status = append(status, Mismatch{
				Kind:     KindStatus,
				Expected: "clean compile",
				Observed: compileSummary(in),
				Detail:   "expected clean compile, " + compileSummary(in),
			})
		}
	case fixture.CompileError:
		if in.ExitCode == 0 && diagnose.CountErrors(in.Diagnostics) == 0 {
			status = append(status, Mismatch{
				Kind:     KindStatus,
				Expected: "compile failure",
				Observed: "clean compile",
				Detail:   "expected compile failure, got clean compile",
			})
		} else if manifest.ErrorCode != "" && !hasErrorCode(in.Diagnostics, manifest.ErrorCode) {
			missing = append(missing, Mismatch{
				Kind:     KindMissing,
				Expected: manifest.ErrorCode,
				Observed: strings.Join(errorCodes(in.Diagnostics), ", "),
				Detail:   fmt.Sprintf("error code %s not reported", manifest.ErrorCode),
			})
		}
	case fixture.LintWarnings:
		observed := diagnose.WarningCodes(in.Diagnostics)
		observedSet := map[string]bool{}
		for _, code := range observed {
			observedSet[code] = true
		}
		expectedSet := map[string]bool{}
		for _, code := range manifest.LintCodes {
			expectedSet[code] = true
			if !observedSet[code] {
				missing = append(missing, Mismatch{
					Kind:     KindMissing,
					Expected: code,
					Detail:   fmt.Sprintf("lint warning %s not emitted", code),
				})
			}
		}
		if in.Policy == PolicyExact {
			for _, code := range observed {
				if !expectedSet[code] {
					status = append(status, Mismatch{
						Kind:     KindStatus,
						Observed: code,
						Detail:   fmt.Sprintf("unexpected lint warning %s", code),
					})
				}
			}
		}
	case fixture.TestResults:
		names := make([]string, 0, len(manifest.Tests))
		for name := range manifest.Tests {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			expected := manifest.Tests[name]
			outcome, ok := findOutcome(in.Tests, name)
			if !ok {
				missing = append(missing, Mismatch{
					Kind:     KindMissing,
					Expected: string(expected),
					Detail:   fmt.Sprintf("test %s not run", name),
				})
				continue
			}
			if string(outcome.Status) != string(expected) {
				status = append(status, Mismatch{
					Kind:     KindStatus,
					Expected: string(expected),
					Observed: string(outcome.Status),
					Detail:   fmt.Sprintf("test %s: expected %s, got %s", name, expected, outcome.Status),
				})
			}
		}
	}

	mismatches := make([]Mismatch, 0, len(missing)+len(status)+1)
	mismatches = append(mismatches, missing...)
	mismatches = append(mismatches, status...)
	matched := len(mismatches) == 0
	if in.Unparsed > 0 {
		mismatches = append(mismatches, Mismatch{
			Kind:   KindUnparsed,
			Detail: fmt.Sprintf("%d tool output lines were not recognized", in.Unparsed),
		})
	}
	return Verdict{
		Fixture:    in.Fixture.Name,
		Matched:    matched,
		Mismatches: mismatches,
	}
}

// Failure builds the verdict for a fixture whose pipeline failed before
// evaluation: load errors, spawn failures, timeouts. The error text becomes
// a single harness mismatch so the run can still complete and report.
func Failure(name string, err error) Verdict {
	return Verdict{
		Fixture: name,
		Matched: false,
		Mismatches: []Mismatch{{
			Kind:   KindHarness,
			Detail: err.Error(),
		}},
	}
}

// findOutcome matches an expected test name against observed outcomes. The
// test runner reports module-qualified names ("tests::test_factorial"); a
// manifest name matches on the trailing path segment boundary.
func findOutcome(outcomes []diagnose.TestOutcome, name string) (diagnose.TestOutcome, bool) {
	for _, outcome := range outcomes {
		if outcome.Name == name || strings.HasSuffix(outcome.Name, "::"+name) {
			return outcome, true
		}
	}
	return diagnose.TestOutcome{}, false
}

func hasErrorCode(diags []diagnose.Diagnostic, code string) bool {
	for _, diag := range diags {
		if diag.Severity == diagnose.SeverityError && diag.Code == code {
			return true
		}
	}
	return false
}

func errorCodes(diags []diagnose.Diagnostic) []string {
	codes := make([]string, 0)
	for _, diag := range diags {
		if diag.Severity == diagnose.SeverityError && diag.Code != "" {
			codes = append(codes, diag.Code)
		}
	}
	return codes
}

func compileSummary(in Input) string {
	errs := diagnose.CountErrors(in.Diagnostics)
	if errs > 0 {
		return fmt.Sprintf("got %d error diagnostics (exit %d)", errs, in.ExitCode)
	}
	return fmt.Sprintf("got exit %d", in.ExitCode)
}
