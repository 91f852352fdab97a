package press

import (
	"git.home.luguber.info/inful/mdpress/internal/assets"
	"git.home.luguber.info/inful/mdpress/internal/config"
	"git.home.luguber.info/inful/mdpress/internal/content"
	"git.home.luguber.info/inful/mdpress/internal/metrics"
	"git.home.luguber.info/inful/mdpress/internal/templates"
)

// StepFunc is one unit of preparation or generation work operating on the
// build-scoped state. A nil return is success.
type StepFunc func(st *State) error

// Generators supplies the three generation steps. The post generator must
// record its rendered post list in State before returning; the index
// generator reads that list, which is why the scheduler never starts it
// before the post step's outcome is known.
type Generators struct {
	Pages StepFunc
	Posts StepFunc
	Index StepFunc
}

// Builder drives one or more builds for a fixed request.
type Builder struct {
	req Request
	rec metrics.Recorder

	// Preparation steps, in fixed execution order.
	checkTimezone StepFunc
	loadInfo      StepFunc
	loadTemplates StepFunc
	scanContent   StepFunc

	gen Generators

	copyAssets func(sourceDir, destDir string)
}

// Option adjusts a Builder.
type Option func(*Builder)

// WithRecorder injects a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(b *Builder) { b.rec = rec }
}

// New creates a Builder for the given request, wiring the default
// preparation steps and asset copier around the supplied generators.
// The request is normalized here; it does not change afterwards.
func New(req Request, gen Generators, opts ...Option) *Builder {
	req = req.Normalize()
	b := &Builder{
		req: req,
		rec: metrics.NoopRecorder{},
		gen: gen,

		checkTimezone: func(*State) error { return config.CheckTimezone() },
		loadInfo: func(st *State) error {
			info, err := config.Load(req.SourceDir)
			if err != nil {
				return err
			}
			st.Info = info
			return nil
		},
		loadTemplates: func(st *State) error {
			set, err := templates.Load(req.SourceDir)
			if err != nil {
				return err
			}
			st.Templates = set
			return nil
		},
		scanContent: func(st *State) error {
			items, err := content.Scan(req.SourceDir, req.DestDir)
			if err != nil {
				return err
			}
			st.Items = items
			return nil
		},

		copyAssets: assets.Copy,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Request returns the normalized request this builder was created for.
func (b *Builder) Request() Request { return b.req }
