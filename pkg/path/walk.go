package path

import (
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var SkipDirs = []string{".git", ".github", ".vscode", ".sitekit", "node_modules", "dist", "build", ".astro", ".vercel", "vendor"}

// GetAllFilesRecursive returns every file under root whose name ends with one
// of the suffixes. Paths are relative to root, slash separated and sorted.
func GetAllFilesRecursive(afs afero.Fs, root string, suffixes []string) ([]string, error) {
	return walkFiles(afs, root, func(rel string) bool {
		lower := strings.ToLower(rel)
		for _, s := range suffixes {
			if strings.HasSuffix(lower, s) {
				return true
			}
		}
		return false
	})
}

// MatchFiles returns the files under base matching the doublestar pattern.
// The pattern is evaluated against the slash separated path relative to base.
func MatchFiles(afs afero.Fs, base, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid glob pattern '%s'", pattern)
	}

	return walkFiles(afs, base, func(rel string) bool {
		ok, err := doublestar.Match(pattern, rel)
		return err == nil && ok
	})
}

func walkFiles(afs afero.Fs, root string, keep func(rel string) bool) ([]string, error) {
	root = filepath.Clean(root)
	paths := make([]string, 0)

	err := afero.Walk(afs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && slices.Contains(SkipDirs, info.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Wrapf(err, "failed to get relative path for %s", path)
		}

		rel = filepath.ToSlash(rel)
		if keep(rel) {
			paths = append(paths, rel)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error walking directory %s", root)
	}

	sort.Strings(paths)
	return paths, nil
}
