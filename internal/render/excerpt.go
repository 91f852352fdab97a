package render

import (
	"html/template"
	"strings"
)

// excerpt returns the first paragraph of a rendered body, used by index
// templates for post previews. Bodies without a paragraph break are
// returned whole.
func excerpt(body template.HTML) template.HTML {
	s := string(body)
	if i := strings.Index(s, "</p>"); i >= 0 {
		return template.HTML(s[:i+len("</p>")])
	}
	return body
}
