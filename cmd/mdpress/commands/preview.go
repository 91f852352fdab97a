package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdpress/internal/metrics"
	"git.home.luguber.info/inful/mdpress/internal/press"
	"git.home.luguber.info/inful/mdpress/internal/preview"
	"git.home.luguber.info/inful/mdpress/internal/render"
)

// PreviewCmd implements the 'preview' command: build, serve, and rebuild on
// source changes.
type PreviewCmd struct {
	Source  string `arg:"" help:"Source directory to watch and build" type:"existingdir"`
	Output  string `short:"o" help:"Destination directory (defaults to <source>/site/)"`
	Port    int    `short:"p" default:"1473" help:"HTTP port"`
	Mode    string `short:"m" default:"sequential" enum:"sequential,parallel" help:"Generation scheduling mode"`
	Metrics bool   `help:"Expose Prometheus metrics at /metrics"`
}

func (p *PreviewCmd) Run(_ *Global, _ *CLI) error {
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mode, err := press.ParseMode(p.Mode)
	if err != nil {
		return err
	}
	req := press.Request{SourceDir: p.Source, DestDir: p.Output, Mode: mode}

	var opts []press.Option
	var metricsHandler http.Handler
	if p.Metrics {
		reg := prom.NewRegistry()
		opts = append(opts, press.WithRecorder(metrics.NewPrometheusRecorder(reg)))
		metricsHandler = metrics.HTTPHandler(reg)
	}

	builder := press.New(req, render.Steps(), opts...)

	return preview.Run(sigctx, preview.Options{
		SourceDir: builder.Request().SourceDir,
		DestDir:   builder.Request().DestDir,
		Addr:      fmt.Sprintf(":%d", p.Port),
		Rebuild: func() error {
			_, err := builder.Build()
			return err
		},
		Metrics: metricsHandler,
	})
}
