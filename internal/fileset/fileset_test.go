package fileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRelative(t *testing.T) {
	root := filepath.FromSlash("/home/user/project")
	tests := []struct {
		name     string
		path     string
		root     string
		expected string
	}{
		{"nested", "/home/user/project/src/id.txt", root, "src/id.txt"},
		{"root level", "/home/user/project/ids.txt", root, "ids.txt"},
		{"root itself", "/home/user/project", root, "."},
		{"already relative", "src/id.txt", root, "src/id.txt"},
		{"outside root", "/other/ids.txt", root, "/other/ids.txt"},
		{"dotdot prefix is inside", "/home/user/project/..data/x", root, "..data/x"},
		{"empty root", "/home/user/project/ids.txt", "", "/home/user/project/ids.txt"},
		{"empty path", "", root, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToRelative(filepath.FromSlash(tc.path), tc.root)
			assert.Equal(t, tc.expected, filepath.ToSlash(got))
		})
	}
}

func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.txt":       "foo",
		"sub/b.txt":   "bar",
		"sub/c.bin":   "f",
		"sub/d/e.txt": "",
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func rels(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.ToSlash(f.Rel)
	}
	return out
}

func TestExpand(t *testing.T) {
	dir := writeTree(t)

	tests := []struct {
		name     string
		patterns []string
		excludes []string
		expected []string
	}{
		{"everything", []string{"**/*"}, nil, []string{"a.txt", "sub/b.txt", "sub/c.bin", "sub/d/e.txt"}},
		{"extension", []string{"**/*.txt"}, nil, []string{"a.txt", "sub/b.txt", "sub/d/e.txt"}},
		{"exclude", []string{"**/*"}, []string{"**/*.bin", "sub/d/**"}, []string{"a.txt", "sub/b.txt"}},
		{"overlapping patterns", []string{"*.txt", "**/*.txt"}, nil, []string{"a.txt", "sub/b.txt", "sub/d/e.txt"}},
		{"no match", []string{"*.json"}, nil, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			files, err := Expand(dir, tc.patterns, tc.excludes)
			require.NoError(t, err)
			if tc.expected == nil {
				assert.Empty(t, files)
				return
			}
			assert.Equal(t, tc.expected, rels(files))
			for _, f := range files {
				assert.True(t, filepath.IsAbs(f.Path))
			}
		})
	}
}

func TestExpand_AbsolutePattern(t *testing.T) {
	dir := writeTree(t)
	files, err := Expand(t.TempDir(), []string{filepath.ToSlash(dir) + "/*.txt"}, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	// outside the root, so the absolute path is kept
	assert.Equal(t, files[0].Path, files[0].Rel)
}

func TestExpand_InvalidExclude(t *testing.T) {
	_, err := Expand("", []string{"*"}, []string{"[unclosed"})
	assert.Error(t, err)
}
