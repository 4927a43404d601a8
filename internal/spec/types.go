package spec

type Config struct {
	Version        int             `yaml:"version"`
	FixturesDir    string          `yaml:"fixtures_dir"`
	OutputDir      string          `yaml:"output_dir"`
	Workers        int             `yaml:"workers"`
	TimeoutSeconds int             `yaml:"timeout_seconds"`
	MatchPolicy    string          `yaml:"match_policy"`
	KeepWorkspaces bool            `yaml:"keep_workspaces"`
	Toolchain      ToolchainConfig `yaml:"toolchain"`
}

// ToolchainConfig overrides the external tool argv per step. Empty slices
// fall back to the built-in cargo commands.
type ToolchainConfig struct {
	BuildCmd []string `yaml:"build_cmd"`
	LintCmd  []string `yaml:"lint_cmd"`
	TestCmd  []string `yaml:"test_cmd"`
}
