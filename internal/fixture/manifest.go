package fixture

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseManifest decodes a manifest document with strict field checking.
func ParseManifest(data []byte) (Manifest, error) {
	var manifest Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Manifest{}, fmt.Errorf("parse manifest: multiple YAML documents are not supported")
		}
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if err := validateManifest(manifest); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

// validateManifest enforces the one-kind-one-payload invariant.
func validateManifest(manifest Manifest) error {
	switch manifest.Kind {
	case CompileOk:
		if manifest.ErrorCode != "" || len(manifest.LintCodes) > 0 || len(manifest.Tests) > 0 {
			return fmt.Errorf("manifest: compile_ok takes no payload")
		}
	case CompileError:
		if len(manifest.LintCodes) > 0 || len(manifest.Tests) > 0 {
			return fmt.Errorf("manifest: compile_error takes only error_code")
		}
	case LintWarnings:
		if manifest.ErrorCode != "" || len(manifest.Tests) > 0 {
			return fmt.Errorf("manifest: lint_warnings takes only lint_codes")
		}
		if len(manifest.LintCodes) == 0 {
			return fmt.Errorf("manifest: lint_warnings requires at least one lint code")
		}
	case TestResults:
		if manifest.ErrorCode != "" || len(manifest.LintCodes) > 0 {
			return fmt.Errorf("manifest: test_results takes only tests")
		}
		if len(manifest.Tests) == 0 {
			return fmt.Errorf("manifest: test_results requires at least one test")
		}
		for name, status := range manifest.Tests {
			switch status {
			case TestPassed, TestFailed, TestPanicked:
			default:
				return fmt.Errorf("manifest: test %q has unknown status %q", name, status)
			}
		}
	case "":
		return fmt.Errorf("manifest: expectation_kind is required")
	default:
		return fmt.Errorf("manifest: unknown expectation_kind %q", manifest.Kind)
	}
	return nil
}
