package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/pagebuild/internal/build"
	"git.home.luguber.info/inful/pagebuild/internal/config"
	"git.home.luguber.info/inful/pagebuild/internal/logfields"
	"git.home.luguber.info/inful/pagebuild/internal/metrics"
	"git.home.luguber.info/inful/pagebuild/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildFlags
	QuietWindow time.Duration `name:"quiet-window" help:"Wait this long after the last change before rebuilding" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := LoadConfig(root, w.apply)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	recorder := metrics.NewPrometheusRecorder(nil)
	builder := build.New(cfg).WithRecorder(recorder)
	rebuild := func(ctx context.Context) error {
		report, err := builder.Run(ctx)
		writeMetrics(cfg, recorder)
		if report != nil {
			printReport(g.Out, report)
		}
		return err
	}

	// A broken first build is reported but does not stop the watcher.
	if err := rebuild(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("Initial build failed, watching for fixes", logfields.Error(err))
	}

	watcher, err := watch.New(watch.Config{
		Roots:       watchRoots(cfg, root.configPath()),
		Ignore:      watchIgnores(cfg),
		QuietWindow: w.QuietWindow,
	}, rebuild)
	if err != nil {
		return err
	}
	slog.Info("Watching for changes, press Ctrl+C to stop")
	return watcher.Run(ctx)
}

// watchRoots lists the manifest directory (templates, partials and snippets
// are usually beside it), the resources dir and the config file.
func watchRoots(cfg *config.Config, configPath string) []string {
	roots := []string{filepath.Dir(cfg.Manifest), cfg.ResourcesDir}
	if configPath != "" {
		roots = append(roots, configPath)
	}
	return roots
}

// watchIgnores keeps build outputs from retriggering builds.
func watchIgnores(cfg *config.Config) []string {
	ignore := []string{cfg.OutputDir}
	if cfg.Metrics.TextfilePath != "" {
		ignore = append(ignore, cfg.Metrics.TextfilePath)
	}
	return ignore
}
