package press

import (
	"html/template"
	"sync"

	"git.home.luguber.info/inful/mdpress/internal/outcome"
	"git.home.luguber.info/inful/mdpress/internal/templates"
)

// generate schedules the page, post, and index generation steps under the
// requested mode and aggregates their outcomes.
//
// The navigation fragment is compiled first in both modes: all three
// generation steps may reference it while rendering.
//
// Ordering barrier: the index step reads the post list the post generator
// wrote into State, so it never starts before the post step has completed —
// not merely before the page step has. When the post step fails the index
// step is never scheduled at all. The page and post steps write disjoint
// State fields, which is what makes the parallel pair safe without locking.
//
// Outcomes are collected in declared order (page, post, index) regardless of
// completion order, keeping the reported failure deterministic across modes.
func (b *Builder) generate(st *State) error {
	nav, err := st.Templates.Render(templates.NavName, nil)
	if err != nil {
		return outcome.Aggregate(StageGeneration, []error{err})
	}
	st.Nav = template.HTML(nav)

	var pageErr, postErr error
	switch b.req.Mode {
	case ModeParallel:
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			pageErr = b.gen.Pages(st)
		}()
		go func() {
			defer wg.Done()
			postErr = b.gen.Posts(st)
		}()
		wg.Wait()
	default:
		pageErr = b.gen.Pages(st)
		postErr = b.gen.Posts(st)
	}

	errs := []error{pageErr, postErr}
	if postErr == nil {
		errs = append(errs, b.gen.Index(st))
	}
	return outcome.Aggregate(StageGeneration, errs)
}
