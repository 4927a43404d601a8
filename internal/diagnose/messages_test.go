package diagnose

import (
	"strings"
	"testing"
)

// TestParseMessagesErrors verifies JSON compiler messages become diagnostics.
func TestParseMessagesErrors(t *testing.T) {
	output := strings.Join([]string{
		`{"reason":"compiler-artifact","target":{"name":"proj"}}`,
		`{"reason":"compiler-message","message":{"level":"error","message":"cannot find value ` + "`x`" + ` in this scope","code":{"code":"E0425"},"spans":[{"file_name":"src/main.rs","line_start":3,"column_start":32,"is_primary":true}]}}`,
		`{"reason":"compiler-message","message":{"level":"error","message":"mismatched types","code":{"code":"E0308"},"spans":[]}}`,
		`{"reason":"build-finished","success":false}`,
	}, "\n")

	diags, stats := ParseMessages(output)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	if stats.UnparsedLines != 0 {
		t.Fatalf("expected no unparsed lines, got %d", stats.UnparsedLines)
	}
	first := diags[0]
	if first.Severity != SeverityError || first.Code != "E0425" {
		t.Fatalf("unexpected first diagnostic: %+v", first)
	}
	if first.Location == nil || first.Location.File != "src/main.rs" || first.Location.Line != 3 {
		t.Fatalf("unexpected location: %+v", first.Location)
	}
	if diags[1].Location != nil {
		t.Fatalf("expected nil location for spanless diagnostic")
	}
}

// TestParseMessagesLintCodes verifies lint warnings keep their codes.
func TestParseMessagesLintCodes(t *testing.T) {
	output := `{"reason":"compiler-message","message":{"level":"warning","message":"unused variable","code":{"code":"unused_variables"},"spans":[{"file_name":"src/main.rs","line_start":5,"column_start":9,"is_primary":true}]}}
{"reason":"compiler-message","message":{"level":"warning","message":"redundant clone","code":{"code":"clippy::redundant_clone"},"spans":[]}}`

	diags, _ := ParseMessages(output)
	codes := WarningCodes(diags)
	if len(codes) != 2 || codes[0] != "unused_variables" || codes[1] != "clippy::redundant_clone" {
		t.Fatalf("unexpected warning codes: %v", codes)
	}
}

// TestParseMessagesMalformedJSON verifies bad lines are counted, not fatal.
func TestParseMessagesMalformedJSON(t *testing.T) {
	output := "not json at all\n" +
		`{"reason":"compiler-message","message":{"level":"warning","message":"w","code":null,"spans":[]}}` + "\n" +
		"{broken"

	diags, stats := ParseMessages(output)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if stats.UnparsedLines != 2 {
		t.Fatalf("expected 2 unparsed lines, got %d", stats.UnparsedLines)
	}
}

// TestParseMessagesEmpty verifies empty output parses cleanly.
func TestParseMessagesEmpty(t *testing.T) {
	diags, stats := ParseMessages("")
	if len(diags) != 0 || stats.UnparsedLines != 0 {
		t.Fatalf("expected empty result, got %d diags %d unparsed", len(diags), stats.UnparsedLines)
	}
}

// TestParseMessagesNoFabrication verifies the diagnostic count never
// exceeds the number of compiler-message lines.
func TestParseMessagesNoFabrication(t *testing.T) {
	output := strings.Repeat(`{"reason":"compiler-message","message":{"level":"note","message":"n","spans":[]}}`+"\n", 4)
	diags, _ := ParseMessages(output)
	if len(diags) > 4 {
		t.Fatalf("parser fabricated diagnostics: %d", len(diags))
	}
}
