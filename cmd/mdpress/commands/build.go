package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/mdpress/internal/logfields"
	"git.home.luguber.info/inful/mdpress/internal/outcome"
	"git.home.luguber.info/inful/mdpress/internal/press"
	"git.home.luguber.info/inful/mdpress/internal/render"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source string `arg:"" help:"Source directory containing config.yaml, templates/, pages/ and posts/" type:"existingdir"`
	Output string `short:"o" help:"Destination directory (defaults to <source>/site/)"`
	Mode   string `short:"m" default:"sequential" enum:"sequential,parallel" help:"Generation scheduling mode"`
}

func (b *BuildCmd) Run(_ *Global, _ *CLI) error {
	mode, err := press.ParseMode(b.Mode)
	if err != nil {
		return err
	}
	req := press.Request{SourceDir: b.Source, DestDir: b.Output, Mode: mode}

	dest, err := press.New(req, render.Steps()).Build()
	if err != nil {
		reportBuildFailure(err)
		return err
	}

	fmt.Println("Site generated at", dest)
	return nil
}

// reportBuildFailure logs the failing stage and error kind before the error
// itself is surfaced through the CLI exit path.
func reportBuildFailure(err error) {
	attrs := []any{logfields.Error(err)}
	if stage, ok := outcome.StageOf(err); ok {
		attrs = append(attrs, logfields.Stage(stage))
	}
	if kind, ok := outcome.KindOf(err); ok {
		attrs = append(attrs, logfields.Kind(string(kind)))
	}
	slog.Error("Build failed", attrs...)
}
