package press

import (
	"log/slog"

	"git.home.luguber.info/inful/mdpress/internal/logfields"
	"git.home.luguber.info/inful/mdpress/internal/outcome"
)

// Stage names used to tag aggregated failures.
const (
	StagePreparation = "build_preparation"
	StageGeneration  = "launch_tasks"
)

// prepare runs the four independent setup steps in fixed order. All four
// always run, never in parallel, so one diagnostic pass surfaces every
// preparation problem; only afterwards is the first failure (in step order)
// reported as the stage outcome.
func (b *Builder) prepare(st *State) error {
	steps := []struct {
		name string
		fn   StepFunc
	}{
		{"check_timezone", b.checkTimezone},
		{"load_info", b.loadInfo},
		{"load_templates", b.loadTemplates},
		{"scan_content", b.scanContent},
	}

	errs := make([]error, 0, len(steps))
	for _, step := range steps {
		err := step.fn(st)
		if err != nil {
			slog.Debug("Preparation step failed",
				logfields.BuildID(st.BuildID), "step", step.name, logfields.Error(err))
		}
		errs = append(errs, err)
	}
	return outcome.Aggregate(StagePreparation, errs)
}
