package templates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdpress/internal/outcome"
)

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	src := t.TempDir()
	dir := filepath.Join(src, Dir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return src
}

func TestLoadAndRender(t *testing.T) {
	src := writeTemplates(t, map[string]string{
		"nav.html":  `<nav>{{.}}</nav>`,
		"page.html": `<h1>{{.}}</h1>`,
	})

	set, err := Load(src)
	require.NoError(t, err)
	assert.True(t, set.Lookup("nav"))
	assert.True(t, set.Lookup("page"))
	assert.False(t, set.Lookup("post"))

	out, err := set.Render("page", "Title")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Title</h1>", out)
}

func TestLoadRequiresNavTemplate(t *testing.T) {
	src := writeTemplates(t, map[string]string{"page.html": `<h1></h1>`})

	_, err := Load(src)
	require.Error(t, err)
	kind, ok := outcome.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, outcome.KindTemplate, kind)
	assert.Contains(t, err.Error(), "nav")
}

func TestLoadMissingTemplateDir(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	kind, ok := outcome.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, outcome.KindTemplate, kind)
}

func TestLoadSyntaxErrorCarriesLine(t *testing.T) {
	src := writeTemplates(t, map[string]string{
		"nav.html": "<nav></nav>\n\n{{if}}\n",
	})

	_, err := Load(src)
	require.Error(t, err)

	var se *outcome.StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, outcome.KindTemplate, se.Kind)
	assert.Equal(t, 3, se.Line)
	assert.Contains(t, se.Path, "nav.html")
}

func TestRenderUnknownTemplate(t *testing.T) {
	src := writeTemplates(t, map[string]string{"nav.html": `<nav></nav>`})
	set, err := Load(src)
	require.NoError(t, err)

	_, err = set.Render("missing", nil)
	require.Error(t, err)
	var se *outcome.StepError
	require.ErrorAs(t, err, &se)
	assert.True(t, errors.Is(err, se.Err))
}

func TestNonHTMLFilesIgnored(t *testing.T) {
	src := writeTemplates(t, map[string]string{
		"nav.html": `<nav></nav>`,
		"README":   "not a template {{if}}",
	})

	_, err := Load(src)
	require.NoError(t, err)
}
