package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yqhp/chain-engine/internal/parser"
	"yqhp/chain-engine/pkg/logger"
)

// LoadDirectory parses every .yaml and .yml file in dir as a chain
// definition and stores the results. Files that fail to parse are logged and
// skipped; the first storage error aborts the load.
func LoadDirectory(store DefinitionStore, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read definitions directory '%s': %w", dir, err)
	}

	p := parser.NewYAMLParser()
	loaded := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, name)
		def, err := p.ParseFile(path)
		if err != nil {
			logger.Warn("skipping definition file %s: %v", path, err)
			continue
		}
		if err := store.Put(def); err != nil {
			return loaded, fmt.Errorf("failed to store definition from %s: %w", path, err)
		}
		logger.Debug("loaded chain definition '%s' from %s", def.ID, path)
		loaded++
	}
	return loaded, nil
}
