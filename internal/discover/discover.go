// Package discover locates PDF inputs on the filesystem.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when the input path does not exist.
var ErrNotFound = errors.New("path not found")

// Options controls directory traversal.
type Options struct {
	// Recursive walks subdirectories instead of just the top level.
	Recursive bool

	// IgnoreDirs lists directory names skipped during recursive walks.
	IgnoreDirs []string
}

// Find returns the ordered list of PDF paths under path. A regular file is
// returned as-is with no extension check; a directory is scanned for .pdf
// entries (case-insensitive) in lexical order.
func Find(path string, opts Options) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	if opts.Recursive {
		return walkDir(path, opts.IgnoreDirs)
	}
	return scanDir(path)
}

func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isPDF(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

func walkDir(root string, ignoreDirs []string) ([]string, error) {
	ignored := make(map[string]struct{}, len(ignoreDirs))
	for _, name := range ignoreDirs {
		ignored[name] = struct{}{}
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// The root is never skipped, even if its name is ignored.
			if _, skip := ignored[d.Name()]; skip && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if isPDF(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}

func isPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
