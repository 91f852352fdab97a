// Package render implements the page, post, and index generation steps.
// Each step reads the scanned manifest and compiled templates from the
// build state and writes rendered HTML under the destination directory.
package render

import (
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"git.home.luguber.info/inful/mdpress/internal/config"
	"git.home.luguber.info/inful/mdpress/internal/content"
	"git.home.luguber.info/inful/mdpress/internal/outcome"
	"git.home.luguber.info/inful/mdpress/internal/press"
)

// Template names the generators render.
const (
	pageTemplate  = "page"
	postTemplate  = "post"
	indexTemplate = "index"
)

// view is the data handed to every template execution.
type view struct {
	Info    *config.Info
	Nav     template.HTML
	Title   string
	Content template.HTML
	Date    time.Time
	DateFmt string
	Posts   []press.Post
}

// Steps returns the three generation steps wired for the press scheduler.
func Steps() press.Generators {
	return press.Generators{
		Pages: Pages,
		Posts: Posts,
		Index: Index,
	}
}

// Pages renders every scanned page into the destination tree.
func Pages(st *press.State) error {
	for _, item := range st.ItemsOf(content.KindPage) {
		doc, err := content.Parse(item.SourcePath)
		if err != nil {
			return err
		}
		if doc.Draft {
			continue
		}
		_, dest := resolveSlug(item, doc)
		v := view{
			Info:    st.Info,
			Nav:     st.Nav,
			Title:   titleOf(doc, item),
			Content: doc.Body,
			Date:    doc.Date,
			DateFmt: formatDate(st.Info, doc.Date),
		}
		if err := writeRendered(st, pageTemplate, v, dest); err != nil {
			return err
		}
	}
	return nil
}

// Posts renders every scanned post and records the rendered post list in
// the build state, newest first, for the index generator.
func Posts(st *press.State) error {
	var posts []press.Post
	for _, item := range st.ItemsOf(content.KindPost) {
		doc, err := content.Parse(item.SourcePath)
		if err != nil {
			return err
		}
		if doc.Draft {
			continue
		}
		slug, dest := resolveSlug(item, doc)
		v := view{
			Info:    st.Info,
			Nav:     st.Nav,
			Title:   titleOf(doc, item),
			Content: doc.Body,
			Date:    doc.Date,
			DateFmt: formatDate(st.Info, doc.Date),
		}
		if err := writeRendered(st, postTemplate, v, dest); err != nil {
			return err
		}
		posts = append(posts, press.Post{
			Title:   v.Title,
			Slug:    slug,
			URL:     content.PostsDir + "/" + slug + ".html",
			Date:    doc.Date,
			Excerpt: excerpt(doc.Body),
		})
	}

	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Date.After(posts[j].Date) })
	st.Posts = posts
	return nil
}

// Index renders the site index from the post list the post step recorded.
func Index(st *press.State) error {
	v := view{
		Info:  st.Info,
		Nav:   st.Nav,
		Title: st.Info.Title,
		Posts: st.Posts,
	}
	return writeRendered(st, indexTemplate, v, filepath.Join(st.DestDir, "index.html"))
}

func writeRendered(st *press.State, tmpl string, v view, destPath string) error {
	html, err := st.Templates.Render(tmpl, v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return outcome.FileError(destPath, err)
	}
	if err := os.WriteFile(destPath, []byte(html), 0o644); err != nil {
		return outcome.FileError(destPath, err)
	}
	return nil
}

// resolveSlug returns the item's effective slug and destination path. The
// document's own slug, from frontmatter or derived from its title, wins over
// the filename-derived slug of the scan manifest and moves the rendered file
// accordingly.
func resolveSlug(item content.Item, doc *content.Document) (string, string) {
	if doc.Slug == "" || doc.Slug == item.Slug {
		return item.Slug, item.DestPath
	}
	return doc.Slug, filepath.Join(filepath.Dir(item.DestPath), doc.Slug+".html")
}

func titleOf(doc *content.Document, item content.Item) string {
	if doc.Title != "" {
		return doc.Title
	}
	return item.Slug
}

func formatDate(info *config.Info, date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(info.TimeFormat)
}
