// Package linkverify checks the internal links of a generated site: every
// href/src that stays inside the site must resolve to a file in the
// destination tree.
package linkverify

import (
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Link is one link-like reference extracted from an HTML document.
type Link struct {
	URL        string
	Tag        string // a, img, script, link, video, audio, source
	Attribute  string // href or src
	IsInternal bool
}

// Broken describes an internal link whose target does not exist.
type Broken struct {
	File string // HTML file containing the link, relative to the site root.
	URL  string
}

// VerifySite walks every .html file under destDir and returns the internal
// links that do not resolve to an existing file. Fragment-only and external
// links are skipped.
func VerifySite(destDir string) ([]Broken, error) {
	var broken []Broken

	err := filepath.WalkDir(destDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			return err
		}
		links, parseErr := ExtractLinks(file)
		_ = file.Close()
		if parseErr != nil {
			return parseErr
		}

		rel, err := filepath.Rel(destDir, path)
		if err != nil {
			rel = path
		}
		for _, link := range links {
			if !link.IsInternal {
				continue
			}
			if !targetExists(destDir, filepath.Dir(path), link.URL) {
				broken = append(broken, Broken{File: rel, URL: link.URL})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return broken, nil
}

// ExtractLinks parses HTML and extracts link-like references.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if link, ok := elementLink(n); ok {
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func elementLink(n *html.Node) (Link, bool) {
	var attrName string
	switch n.Data {
	case "a", "link":
		attrName = "href"
	case "img", "script", "video", "audio", "source":
		attrName = "src"
	default:
		return Link{}, false
	}
	value := getAttr(n, attrName)
	if value == "" {
		return Link{}, false
	}
	return Link{
		URL:        value,
		Tag:        n.Data,
		Attribute:  attrName,
		IsInternal: isInternal(value),
	}, true
}

func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// isInternal reports whether a reference stays inside the site: no scheme,
// no host, and not a bare fragment or mailto/tel-style pseudo-URL.
func isInternal(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// targetExists resolves an internal reference against the containing file's
// directory (or the site root for absolute paths) and checks the target.
// Directory targets count as existing when they hold an index.html.
func targetExists(root, fileDir, ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	p := u.Path
	if p == "" {
		return true // fragment/query against the same document
	}

	var target string
	if strings.HasPrefix(p, "/") {
		target = filepath.Join(root, filepath.FromSlash(p))
	} else {
		target = filepath.Join(fileDir, filepath.FromSlash(p))
	}

	fi, err := os.Stat(target)
	if err != nil {
		return false
	}
	if fi.IsDir() {
		_, err := os.Stat(filepath.Join(target, "index.html"))
		return err == nil
	}
	return true
}
