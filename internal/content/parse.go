package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdpress/internal/outcome"
)

// Document is a parsed content item: frontmatter fields plus the markdown
// body converted to HTML.
type Document struct {
	Title string
	Slug  string
	Date  time.Time
	Draft bool
	Meta  map[string]any
	Body  template.HTML
}

// frontmatter is the YAML header of a content file.
type frontmatter struct {
	Title string         `yaml:"title"`
	Slug  string         `yaml:"slug,omitempty"`
	Date  string         `yaml:"date,omitempty"`
	Draft bool           `yaml:"draft,omitempty"`
	Meta  map[string]any `yaml:",inline"`
}

// Accepted frontmatter date layouts, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse reads one content file, splits its `---` delimited YAML frontmatter
// from the markdown body, and converts the body to HTML.
func Parse(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, outcome.FileError(path, err)
	}

	header, body, err := split(raw)
	if err != nil {
		return nil, outcome.ContentError(path, 0, err)
	}

	var fm frontmatter
	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &fm); err != nil {
			// The header starts after the opening delimiter line.
			return nil, outcome.ContentError(path, yamlLine(err)+1, err)
		}
	}

	doc := &Document{
		Title: fm.Title,
		Slug:  fm.Slug,
		Draft: fm.Draft,
		Meta:  fm.Meta,
	}

	if fm.Date != "" {
		date, err := parseDate(fm.Date)
		if err != nil {
			return nil, outcome.ContentError(path, 0, err)
		}
		doc.Date = date
	}
	if doc.Slug == "" && doc.Title != "" {
		doc.Slug = Slugify(doc.Title)
	}

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, outcome.ContentError(path, 0, err)
	}
	doc.Body = template.HTML(buf.String())
	return doc, nil
}

var delim = []byte("---")

// split separates YAML frontmatter from the markdown body. Files without a
// leading delimiter have no frontmatter; a leading delimiter without a
// closing one is malformed. The closing delimiter may sit at end-of-file
// without a trailing newline.
func split(raw []byte) (header, body []byte, err error) {
	trimmed := normalizeNewlines(raw)
	if !bytes.HasPrefix(trimmed, append(delim, '\n')) {
		return nil, trimmed, nil
	}
	rest := trimmed[len(delim)+1:]
	end := bytes.Index(rest, []byte("\n---\n"))
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")):
		return nil, rest[len(delim)+1:], nil
	case end < 0:
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len(delim)], nil, nil
		}
		return nil, nil, errors.New("frontmatter: missing closing delimiter")
	}
	return rest[:end+1], rest[end+len("\n---\n"):], nil
}

func normalizeNewlines(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

var yamlLineRe = regexp.MustCompile(`line (\d+):`)

func yamlLine(err error) int {
	if err == nil {
		return 0
	}
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
