package diagnose

import (
	"regexp"
	"strconv"
	"strings"
)

// headerPattern matches a human-readable diagnostic header, e.g.
// "error[E0425]: cannot find value `x` in this scope".
var headerPattern = regexp.MustCompile(`^(error|warning|note|help)(?:\[([A-Za-z0-9_:]+)\])?: (.+)$`)

// locationPattern matches a source pointer line, e.g. " --> src/main.rs:10:5".
var locationPattern = regexp.MustCompile(`^\s*--> ([^:]+):(\d+):(\d+)$`)

// ParseHuman parses human-readable toolchain output, the fallback when
// machine-readable output is unavailable. Only header and location lines
// are classified; snippet and caret lines belong to the current diagnostic
// and are not counted as unparsed. Free-standing text outside any
// diagnostic increments the unparsed counter.
func ParseHuman(output string) ([]Diagnostic, Stats) {
	diags := make([]Diagnostic, 0)
	stats := Stats{}
	inDiagnostic := false

	for _, line := range strings.Split(output, "\n") {
		if match := headerPattern.FindStringSubmatch(line); match != nil {
			diag := Diagnostic{
				Severity: Severity(match[1]),
				Code:     match[2],
				Message:  match[3],
			}
			diags = append(diags, diag)
			inDiagnostic = true
			continue
		}
		if match := locationPattern.FindStringSubmatch(line); match != nil && inDiagnostic {
			current := &diags[len(diags)-1]
			if current.Location == nil {
				lineNum, _ := strconv.Atoi(match[2])
				colNum, _ := strconv.Atoi(match[3])
				current.Location = &Location{File: match[1], Line: lineNum, Column: colNum}
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			inDiagnostic = false
			continue
		}
		if !inDiagnostic {
			stats.UnparsedLines++
		}
	}
	return diags, stats
}
