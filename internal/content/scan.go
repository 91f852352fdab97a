// Package content discovers and parses the markdown content of a site
// source tree: standalone pages under pages/ and dated posts under posts/.
package content

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/mdpress/internal/outcome"
)

// Kind distinguishes the two content trees.
type Kind string

const (
	KindPage Kind = "page"
	KindPost Kind = "post"
)

// Source subdirectories scanned for markdown files.
const (
	PagesDir = "pages"
	PostsDir = "posts"
)

// Item is one entry of the scanned content manifest.
type Item struct {
	Kind       Kind
	SourcePath string // Absolute or source-relative path to the .md file.
	DestPath   string // Path of the rendered HTML file under the destination.
	Slug       string // Filename-derived slug; the parsed document's slug overrides it.
}

// Scan discovers the content items of a source tree and computes their
// destination paths. A missing pages/ or posts/ subdirectory is not an
// error; a site may carry only one of the two. Walk failures are.
func Scan(sourceDir, destDir string) ([]Item, error) {
	var items []Item

	trees := []struct {
		sub  string
		kind Kind
	}{
		{PagesDir, KindPage},
		{PostsDir, KindPost},
	}

	for _, tree := range trees {
		root := filepath.Join(sourceDir, tree.sub)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return outcome.FileError(path, err)
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
				return nil
			}
			slug := strings.TrimSuffix(d.Name(), ".md")
			items = append(items, Item{
				Kind:       tree.kind,
				SourcePath: path,
				DestPath:   destPathFor(destDir, tree.kind, slug),
				Slug:       slug,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].SourcePath < items[j].SourcePath })
	return items, nil
}

func destPathFor(destDir string, kind Kind, slug string) string {
	if kind == KindPost {
		return filepath.Join(destDir, PostsDir, slug+".html")
	}
	return filepath.Join(destDir, slug+".html")
}
