package spec

import (
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
version: 1
fixtures_dir: testdata/fixtures
output_dir: .fixbench/results
workers: 4
timeout_seconds: 90
match_policy: exact
toolchain:
  build_cmd: [cargo, build, --message-format, json]
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Version != 1 || cfg.FixturesDir != "testdata/fixtures" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Workers != 4 || cfg.TimeoutSeconds != 90 || cfg.MatchPolicy != "exact" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Toolchain.BuildCmd) != 4 {
		t.Fatalf("unexpected build_cmd: %v", cfg.Toolchain.BuildCmd)
	}
}

func TestParseConfigRejectsUnknownFields(t *testing.T) {
	_, err := ParseConfig([]byte("version: 1\nunknown_field: true\n"))
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestParseConfigRejectsMultipleDocuments(t *testing.T) {
	_, err := ParseConfig([]byte("version: 1\n---\nversion: 2\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
		t.Fatalf("expected multi-document error, got %v", err)
	}
}
