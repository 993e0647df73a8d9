// Package fileset expands doublestar patterns into the files a bulk
// conversion reads. Matching runs on absolute paths; callers print paths
// relative to the search root.
package fileset

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/openenc/internal/debug"
)

// File is one matched regular file.
type File struct {
	Path string // absolute
	Rel  string // relative to the root, or Path when outside it
}

// Expand matches patterns under root ("" means the working directory) and
// returns regular files sorted by path. Relative patterns are resolved
// against root. A file matching any exclude pattern is dropped; excludes
// are matched against the root-relative slash path.
func Expand(root string, patterns, excludes []string) ([]File, error) {
	for _, ex := range excludes {
		if !doublestar.ValidatePattern(ex) {
			return nil, fmt.Errorf("invalid exclude pattern %q", ex)
		}
	}

	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	seen := make(map[string]bool)
	var files []File
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(absRoot, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}

		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			rel := ToRelative(path, absRoot)
			if excluded(rel, excludes) {
				continue
			}
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			files = append(files, File{Path: path, Rel: rel})
		}
	}

	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	debug.Printf("fileset: %d patterns matched %d files under %s\n", len(patterns), len(files), absRoot)
	return files, nil
}

func excluded(rel string, excludes []string) bool {
	slashPath := filepath.ToSlash(rel)
	for _, ex := range excludes {
		if ok, _ := doublestar.Match(ex, slashPath); ok {
			return true
		}
	}
	return false
}

// ToRelative returns path relative to root. Paths already relative, outside
// root, or on another volume come back unchanged.
func ToRelative(path, root string) string {
	if path == "" || root == "" || !filepath.IsAbs(path) {
		return path
	}

	path = filepath.Clean(path)
	rel, err := filepath.Rel(filepath.Clean(root), path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
