package fixture

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ManifestFileName is the per-fixture manifest file looked up in each
// fixture directory.
const ManifestFileName = "manifest.yml"

// Load walks the immediate subdirectories of root in lexical order and
// loads every directory containing a manifest file as a fixture. A fixture
// that fails to load is returned as a LoadError instead of aborting the
// walk, so one malformed manifest never hides the remaining fixtures.
func Load(root string) ([]Fixture, []*LoadError, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("read fixtures root: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), ManifestFileName)); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	fixtures := make([]Fixture, 0, len(names))
	failures := make([]*LoadError, 0)
	index := 0
	for _, name := range names {
		fx, err := loadOne(root, name, index)
		if err != nil {
			failures = append(failures, &LoadError{Fixture: name, Err: err})
			index++
			continue
		}
		fixtures = append(fixtures, fx)
		index++
	}
	return fixtures, failures, nil
}

// LoadOne loads a single named fixture under root.
func LoadOne(root, name string) (Fixture, error) {
	fx, err := loadOne(root, name, 0)
	if err != nil {
		return Fixture{}, &LoadError{Fixture: name, Err: err}
	}
	return fx, nil
}

func loadOne(root, name string, index int) (Fixture, error) {
	dir := filepath.Join(root, name)
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return Fixture{}, fmt.Errorf("read manifest: %w", err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return Fixture{}, err
	}

	if len(manifest.Sources) == 0 {
		sources, err := discoverSources(dir)
		if err != nil {
			return Fixture{}, err
		}
		if len(sources) == 0 {
			return Fixture{}, fmt.Errorf("no source files found")
		}
		manifest.Sources = sources
	} else {
		for _, source := range manifest.Sources {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(source))); err != nil {
				return Fixture{}, fmt.Errorf("source %s: %w", source, err)
			}
		}
	}

	return Fixture{
		Name:     name,
		Dir:      dir,
		Index:    index,
		Manifest: manifest,
	}, nil
}

// discoverSources collects every regular file under dir except the
// manifest itself, as slash-separated paths relative to dir.
func discoverSources(dir string) ([]string, error) {
	sources := make([]string, 0)
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == ManifestFileName {
			return nil
		}
		sources = append(sources, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}
	sort.Strings(sources)
	return sources, nil
}
