package diagnose

// Severity classifies a tool diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
	SeverityHelp    Severity = "help"
)

// Location points at the source position a diagnostic refers to.
type Location struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is one structured compiler or linter message. Diagnostics keep
// the emission order of the tool; they are never re-sorted.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Location *Location
}

// Stats carries parse-level metadata alongside the structured output.
// UnparsedLines counts input lines that looked like nothing the parser
// recognizes; parsing never aborts on them.
type Stats struct {
	UnparsedLines int
}

// CountErrors returns the number of error-severity diagnostics.
func CountErrors(diags []Diagnostic) int {
	count := 0
	for _, diag := range diags {
		if diag.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCodes collects the distinct codes of warning-severity diagnostics,
// in first-seen order.
func WarningCodes(diags []Diagnostic) []string {
	seen := map[string]bool{}
	codes := make([]string, 0)
	for _, diag := range diags {
		if diag.Severity != SeverityWarning || diag.Code == "" {
			continue
		}
		if seen[diag.Code] {
			continue
		}
		seen[diag.Code] = true
		codes = append(codes, diag.Code)
	}
	return codes
}
