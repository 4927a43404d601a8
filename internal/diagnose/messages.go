package diagnose

import (
	"bufio"
	"encoding/json"
	"strings"
)

// toolMessage mirrors one line of the toolchain's machine-readable output.
// Only compiler-message records carry diagnostics; other reasons (artifact
// notifications, build summaries) are ignored without counting as unparsed.
type toolMessage struct {
	Reason  string          `json:"reason"`
	Message *compilerRecord `json:"message"`
}

type compilerRecord struct {
	Level   string       `json:"level"`
	Message string       `json:"message"`
	Code    *recordCode  `json:"code"`
	Spans   []recordSpan `json:"spans"`
}

type recordCode struct {
	Code string `json:"code"`
}

type recordSpan struct {
	FileName    string `json:"file_name"`
	LineStart   int    `json:"line_start"`
	ColumnStart int    `json:"column_start"`
	IsPrimary   bool   `json:"is_primary"`
}

// ParseMessages parses machine-readable (JSON lines) toolchain output into
// diagnostics in emission order. Lines that are not valid JSON are counted
// as unparsed and skipped.
func ParseMessages(output string) ([]Diagnostic, Stats) {
	diags := make([]Diagnostic, 0)
	stats := Stats{}

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var msg toolMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			stats.UnparsedLines++
			continue
		}
		if msg.Reason != "compiler-message" || msg.Message == nil {
			continue
		}
		diag, ok := diagnosticFromRecord(*msg.Message)
		if !ok {
			stats.UnparsedLines++
			continue
		}
		diags = append(diags, diag)
	}
	return diags, stats
}

// diagnosticFromRecord maps one compiler record to a Diagnostic.
func diagnosticFromRecord(record compilerRecord) (Diagnostic, bool) {
	severity, ok := severityFromLevel(record.Level)
	if !ok {
		return Diagnostic{}, false
	}
	diag := Diagnostic{
		Severity: severity,
		Message:  record.Message,
	}
	if record.Code != nil {
		diag.Code = record.Code.Code
	}
	for _, span := range record.Spans {
		if !span.IsPrimary || span.FileName == "" {
			continue
		}
		diag.Location = &Location{
			File:   span.FileName,
			Line:   span.LineStart,
			Column: span.ColumnStart,
		}
		break
	}
	return diag, true
}

// severityFromLevel maps tool levels onto the severity scale.
func severityFromLevel(level string) (Severity, bool) {
	switch strings.ToLower(level) {
	case "error", "error: internal compiler error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "note", "info":
		return SeverityNote, true
	case "help":
		return SeverityHelp, true
	default:
		return "", false
	}
}
