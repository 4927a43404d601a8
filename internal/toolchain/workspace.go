package toolchain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"fixbench/internal/fixture"
)

// materializeWorkspace copies a fixture's sources into a fresh directory
// under workRoot, namespaced by run ID and a per-invocation UUID so that
// concurrent evaluations of the same fixture never share state.
func materializeWorkspace(workRoot, runID string, fx fixture.Fixture) (string, error) {
	dir := filepath.Join(workRoot, runID, fx.Name+"-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	for _, source := range fx.Manifest.Sources {
		rel := filepath.FromSlash(source)
		src := filepath.Join(fx.Dir, rel)
		dst := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return "", fmt.Errorf("create workspace dir: %w", err)
		}
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("materialize %s: %w", source, err)
		}
	}
	return dir, nil
}

// copyFile clones src to dst, preferring a copy-on-write clone where the
// platform supports it.
func copyFile(src, dst string) error {
	if err := cloneFile(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// removeWorkspace deletes a workspace directory. Cleanup failures are
// returned so callers can surface them, but they never fail a verdict.
func removeWorkspace(dir string) error {
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}
