// Package templates compiles the HTML templates of a site source tree into
// a reusable set, keyed by template name.
package templates

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdpress/internal/outcome"
)

// Dir is the template directory expected under the source directory.
const Dir = "templates"

// NavName is the template every site must provide; the compiled navigation
// fragment is rendered from it before any page generation starts.
const NavName = "nav"

// Set holds the compiled templates of one build.
type Set struct {
	root *template.Template
}

// Load compiles every *.html file under sourceDir/templates.
//
// The resulting set must contain a template named "nav"; its absence is a
// template error because later generation steps render it unconditionally.
func Load(sourceDir string) (*Set, error) {
	dir := filepath.Join(sourceDir, Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, outcome.TemplateError(dir, 0, err)
	}

	root := template.New("")
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, outcome.TemplateError(path, 0, err)
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		if _, err := root.New(name).Parse(string(data)); err != nil {
			return nil, outcome.TemplateError(path, errLine(err), err)
		}
		loaded++
	}

	if loaded == 0 {
		return nil, outcome.TemplateError(dir, 0, errors.New("no templates found"))
	}
	if root.Lookup(NavName) == nil {
		return nil, outcome.TemplateError(dir, 0, fmt.Errorf("required template %q not found", NavName))
	}
	return &Set{root: root}, nil
}

// Lookup reports whether the set contains a template with the given name.
func (s *Set) Lookup(name string) bool {
	return s != nil && s.root.Lookup(name) != nil
}

// Render executes the named template with the given data.
func (s *Set) Render(name string, data any) (string, error) {
	t := s.root.Lookup(name)
	if t == nil {
		return "", outcome.TemplateError(name, 0, errors.New("template not defined"))
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", outcome.TemplateError(name, errLine(err), err)
	}
	return buf.String(), nil
}

// html/template errors look like `template: name:LINE:COL: message` or
// `template: name:LINE: message`.
var tmplLineRe = regexp.MustCompile(`template: [^:]*:(\d+)`)

func errLine(err error) int {
	if err == nil {
		return 0
	}
	m := tmplLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
