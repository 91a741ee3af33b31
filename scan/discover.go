package scan

import (
	"path/filepath"
	"slices"
)

// patterns are the fixed locations where standards documents live, relative
// to the source root.
var patterns = []string{
	"tenets/*.md",
	"bindings/core/*.md",
	"bindings/categories/*/*.md",
}

// reservedStems name generated index files that are never standards content.
var reservedStems = map[string]bool{
	"index":    true,
	"glance":   true,
	"00-index": true,
}

// DiscoverPaths returns the standards document paths under root, sorted,
// with reserved index files excluded. Missing directories contribute
// nothing.
func DiscoverPaths(root string) []string {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			continue
		}
		for _, match := range matches {
			if reservedStems[fileStem(match)] {
				continue
			}
			paths = append(paths, match)
		}
	}
	slices.Sort(paths)
	return paths
}
