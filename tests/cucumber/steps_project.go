package cucumber

import (
	"fmt"
	"os"
	"path/filepath"
)

// aProjectWithCleanCompileFixture sets up a project whose single fixture
// expects the toolchain to compile cleanly.
func (s *featureState) aProjectWithCleanCompileFixture() error {
	return s.initProject("tidy_project", "expectation_kind: compile_ok\n")
}

// aProjectWithCompileErrorFixture sets up a project whose single fixture
// expects a compile failure.
func (s *featureState) aProjectWithCompileErrorFixture() error {
	return s.initProject("stubborn_project", "expectation_kind: compile_error\n")
}

// aFixtureWithUnreadableManifest adds a fixture whose manifest cannot be
// parsed.
func (s *featureState) aFixtureWithUnreadableManifest(name string) error {
	if !s.initialized {
		return fmt.Errorf("project is not set up")
	}
	return s.writeFixture(name, "expectation_kind: [not, a, scalar\n", nil)
}

// theToolchainReportsCleanCompile points every toolchain command at a
// no-op shell invocation that exits zero with no output.
func (s *featureState) theToolchainReportsCleanCompile() error {
	if !s.initialized {
		return fmt.Errorf("project is not set up")
	}
	return s.writeConfig(cleanToolchainConfigYAML())
}

// initProject creates a temp project with one fixture and a default
// config, then enters it so the CLI discovers the config by walking up.
func (s *featureState) initProject(fixtureName, manifest string) error {
	if s.initialized {
		return nil
	}
	dir, err := os.MkdirTemp("", "fixbench-feature-*")
	if err != nil {
		return fmt.Errorf("create temp project: %w", err)
	}
	s.projectDir = dir
	s.configPath = filepath.Join(dir, ".fixbench.yml")

	if err := s.writeFixture(fixtureName, manifest, map[string]string{
		"src/main.rs": "fn main() {}\n",
	}); err != nil {
		return err
	}
	if err := s.writeConfig(cleanToolchainConfigYAML()); err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	s.initialized = true
	return nil
}

// writeFixture persists a fixture directory with manifest and sources.
func (s *featureState) writeFixture(name, manifest string, sources map[string]string) error {
	dir := filepath.Join(s.projectDir, "fixtures", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yml"), []byte(manifest), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	for rel, body := range sources {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create source dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("write source: %w", err)
		}
	}
	return nil
}

// writeConfig persists configuration content to the project config path.
func (s *featureState) writeConfig(contents string) error {
	if s.configPath == "" {
		return fmt.Errorf("config path is not set")
	}
	if err := os.WriteFile(s.configPath, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// cleanToolchainConfigYAML returns a config whose toolchain commands all
// succeed without emitting diagnostics.
func cleanToolchainConfigYAML() string {
	return `version: 1
fixtures_dir: fixtures
output_dir: results
toolchain:
  build_cmd: ["true"]
  lint_cmd: ["true"]
  test_cmd: ["true"]
`
}
