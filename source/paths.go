package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveFiles expands source patterns to absolute file paths. A pattern is a
// file, a directory (every file below it) or a doublestar glob such as
// "ontologies/**/*.ttl".
//
// Each pattern must match at least one regular file. The result is sorted and
// free of duplicates, so the merge order of a load is stable.
func ResolveFiles(patterns []string) ([]string, error) {
	var resolved []string
	for _, pattern := range patterns {
		files, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		resolved = append(resolved, files...)
	}

	slices.Sort(resolved)
	return slices.Compact(resolved), nil
}

func resolvePattern(pattern string) ([]string, error) {
	root, glob := filepath.Clean(pattern), "**/*"

	if strings.ContainsAny(pattern, "*?[{") {
		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		if !doublestar.ValidatePattern(rest) {
			return nil, doublestar.ErrBadPattern
		}
		root, glob = filepath.FromSlash(base), rest
	} else {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			abs, err := filepath.Abs(root)
			if err != nil {
				return nil, err
			}
			return []string{abs}, nil
		}
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = doublestar.GlobWalk(os.DirFS(root), glob, func(path string, d fs.DirEntry) error {
		if d.Type().IsRegular() {
			files = append(files, filepath.Join(root, filepath.FromSlash(path)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	return files, nil
}
