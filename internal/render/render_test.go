package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdpress/internal/config"
	"git.home.luguber.info/inful/mdpress/internal/content"
	"git.home.luguber.info/inful/mdpress/internal/outcome"
	"git.home.luguber.info/inful/mdpress/internal/press"
	"git.home.luguber.info/inful/mdpress/internal/templates"
)

// newRenderState assembles a prepared build state over a temp source tree.
func newRenderState(t *testing.T, contents map[string]string) *press.State {
	t.Helper()
	src := t.TempDir()

	tmpl := map[string]string{
		"templates/nav.html":   `<nav></nav>`,
		"templates/page.html":  `<h1>{{.Title}}</h1>{{.Content}}`,
		"templates/post.html":  `<article data-date="{{.DateFmt}}"><h1>{{.Title}}</h1>{{.Content}}</article>`,
		"templates/index.html": `{{range .Posts}}<a href="/{{.URL}}">{{.Title}}</a>{{end}}`,
	}
	for name, body := range tmpl {
		path := filepath.Join(src, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	for name, body := range contents {
		path := filepath.Join(src, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	req := press.Request{SourceDir: src, Mode: press.ModeSequential}.Normalize()
	st := press.NewState(req)
	st.Info = &config.Info{Title: "Test", TimeFormat: "2006-01-02"}

	set, err := templates.Load(req.SourceDir)
	require.NoError(t, err)
	st.Templates = set

	items, err := content.Scan(req.SourceDir, req.DestDir)
	require.NoError(t, err)
	st.Items = items

	require.NoError(t, os.MkdirAll(req.DestDir, 0o755))
	return st
}

func TestPagesRendersEachPage(t *testing.T) {
	st := newRenderState(t, map[string]string{
		"pages/about.md":   "---\ntitle: About\n---\nAbout body.\n",
		"pages/contact.md": "---\ntitle: Contact\n---\nContact body.\n",
	})

	require.NoError(t, Pages(st))

	about, err := os.ReadFile(filepath.Join(st.DestDir, "about.html"))
	require.NoError(t, err)
	assert.Contains(t, string(about), "<h1>About</h1>")
	assert.FileExists(t, filepath.Join(st.DestDir, "contact.html"))
}

func TestPagesSkipsDrafts(t *testing.T) {
	st := newRenderState(t, map[string]string{
		"pages/wip.md": "---\ntitle: WIP\ndraft: true\n---\nnot yet\n",
	})

	require.NoError(t, Pages(st))
	assert.NoFileExists(t, filepath.Join(st.DestDir, "wip.html"))
}

func TestPostsRecordsSortedPostList(t *testing.T) {
	st := newRenderState(t, map[string]string{
		"posts/old.md": "---\ntitle: Old\ndate: 2023-01-01\n---\nold words\n",
		"posts/new.md": "---\ntitle: New\ndate: 2024-01-01\n---\nnew words\n",
	})

	require.NoError(t, Posts(st))

	require.Len(t, st.Posts, 2)
	assert.Equal(t, "New", st.Posts[0].Title, "newest first")
	assert.Equal(t, "Old", st.Posts[1].Title)
	assert.Equal(t, "posts/new.html", st.Posts[0].URL)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), st.Posts[0].Date)
	assert.FileExists(t, filepath.Join(st.DestDir, "posts", "new.html"))
	assert.NotEmpty(t, st.Posts[0].Excerpt)
}

func TestPostsDocumentSlugOverridesFilename(t *testing.T) {
	st := newRenderState(t, map[string]string{
		"posts/draft-v2.md": "---\ntitle: Hello World\nslug: hello\ndate: 2024-03-01\n---\nbody\n",
		"posts/notes.md":    "---\ntitle: Réunion Notes\ndate: 2024-02-01\n---\nbody\n",
	})

	require.NoError(t, Posts(st))

	// Explicit frontmatter slug renames the output.
	assert.FileExists(t, filepath.Join(st.DestDir, "posts", "hello.html"))
	assert.NoFileExists(t, filepath.Join(st.DestDir, "posts", "draft-v2.html"))
	// Title-derived slug when frontmatter carries none, diacritics stripped.
	assert.FileExists(t, filepath.Join(st.DestDir, "posts", "reunion-notes.html"))
	assert.NoFileExists(t, filepath.Join(st.DestDir, "posts", "notes.html"))

	require.Len(t, st.Posts, 2)
	assert.Equal(t, "hello", st.Posts[0].Slug)
	assert.Equal(t, "posts/hello.html", st.Posts[0].URL)
}

func TestPostsFailsOnMalformedItem(t *testing.T) {
	st := newRenderState(t, map[string]string{
		"posts/bad.md": "---\ntitle: Bad\ndate: nope\n---\nbody\n",
	})

	err := Posts(st)
	require.Error(t, err)
	kind, ok := outcome.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, outcome.KindContent, kind)
}

func TestIndexRendersPostList(t *testing.T) {
	st := newRenderState(t, nil)
	st.Posts = []press.Post{
		{Title: "Newer", URL: "posts/newer.html"},
		{Title: "Older", URL: "posts/older.html"},
	}

	require.NoError(t, Index(st))

	index, err := os.ReadFile(filepath.Join(st.DestDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `<a href="/posts/newer.html">Newer</a>`)
	assert.Contains(t, string(index), "Older")
}

func TestExcerptFirstParagraph(t *testing.T) {
	got := excerpt("<p>first</p><p>second</p>")
	assert.Equal(t, "<p>first</p>", string(got))

	whole := excerpt("no paragraphs here")
	assert.Equal(t, "no paragraphs here", string(whole))
}
