package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFindsPagesAndPosts(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(src, "site")
	for _, f := range []string{"pages/about.md", "pages/contact.md", "posts/hello.md", "posts/notes.txt"} {
		path := filepath.Join(src, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	items, err := Scan(src, dest)
	require.NoError(t, err)
	require.Len(t, items, 3, "non-markdown files are skipped")

	byKind := map[Kind]int{}
	for _, it := range items {
		byKind[it.Kind]++
	}
	assert.Equal(t, 2, byKind[KindPage])
	assert.Equal(t, 1, byKind[KindPost])
}

func TestScanDestPaths(t *testing.T) {
	src := t.TempDir()
	dest := "/tmp/out"
	for _, f := range []string{"pages/about.md", "posts/hello.md"} {
		path := filepath.Join(src, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	items, err := Scan(src, dest)
	require.NoError(t, err)

	paths := map[Kind]string{}
	for _, it := range items {
		paths[it.Kind] = it.DestPath
	}
	assert.Equal(t, "/tmp/out/about.html", paths[KindPage])
	assert.Equal(t, "/tmp/out/posts/hello.html", paths[KindPost])
}

func TestScanMissingTreesAreNotErrors(t *testing.T) {
	src := t.TempDir()

	items, err := Scan(src, "/tmp/out")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScanDeterministicOrder(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "pages"), 0o755))
	for _, name := range []string{"c.md", "a.md", "b.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(src, "pages", name), []byte("x"), 0o644))
	}

	items, err := Scan(src, "/tmp/out")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Slug)
	assert.Equal(t, "b", items[1].Slug)
	assert.Equal(t, "c", items[2].Slug)
}
