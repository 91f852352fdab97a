package press

import (
	"html/template"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdpress/internal/config"
	"git.home.luguber.info/inful/mdpress/internal/content"
	"git.home.luguber.info/inful/mdpress/internal/templates"
)

// Post is the record a rendered post leaves behind for the index.
type Post struct {
	Title   string
	Slug    string
	URL     string // Relative to the site root, e.g. "posts/hello.html".
	Date    time.Time
	Excerpt template.HTML
}

// State is the build-scoped context shared between steps. A fresh State is
// created for every build invocation and discarded when the build returns;
// nothing survives across builds.
//
// Write ownership is one step per field: Info, Templates, and Items are
// written during preparation; Nav by the scheduler before any generation
// step starts; Posts by the post generator alone, read by the index
// generator only after the post step has completed. The scheduler's
// ordering barrier is what makes the unlocked reads safe.
type State struct {
	BuildID   string
	SourceDir string
	DestDir   string
	Info      *config.Info
	Templates *templates.Set
	Items     []content.Item
	Nav       template.HTML
	Posts     []Post
}

// NewState creates the context for one build invocation.
func NewState(req Request) *State {
	return &State{
		BuildID:   uuid.NewString(),
		SourceDir: req.SourceDir,
		DestDir:   req.DestDir,
	}
}

// ItemsOf returns the scanned manifest entries of one kind.
func (s *State) ItemsOf(kind content.Kind) []content.Item {
	var out []content.Item
	for _, it := range s.Items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}
