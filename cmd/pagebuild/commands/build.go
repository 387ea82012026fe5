package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/pagebuild/internal/build"
	"git.home.luguber.info/inful/pagebuild/internal/config"
	"git.home.luguber.info/inful/pagebuild/internal/logfields"
	"git.home.luguber.info/inful/pagebuild/internal/metrics"
)

// BuildFlags override config values for commands that run builds.
type BuildFlags struct {
	Output      string `short:"o" help:"Output directory (overrides config and PAGEBUILD_OUTPUT_DIR)"`
	Resources   string `short:"r" help:"Resources directory holding stylesheets/, the favicon and static files"`
	Manifest    string `short:"m" help:"Page manifest (JSON or YAML)"`
	Concurrency int    `short:"j" help:"Maximum number of assets copied concurrently"`
	Strict      bool   `help:"Exit non-zero when any asset fails to sync"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus textfile metrics to this path after each build"`
}

func (f *BuildFlags) apply(cfg *config.Config) {
	if f.Output != "" {
		cfg.OutputDir = f.Output
	}
	if f.Resources != "" {
		cfg.ResourcesDir = f.Resources
	}
	if f.Manifest != "" {
		cfg.Manifest = f.Manifest
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.Strict {
		cfg.Strict = true
	}
	if f.MetricsFile != "" {
		cfg.Metrics.TextfilePath = f.MetricsFile
	}
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	BuildFlags
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := LoadConfig(root, b.apply)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	recorder := metrics.NewPrometheusRecorder(nil)
	report, err := build.New(cfg).WithRecorder(recorder).Run(ctx)
	writeMetrics(cfg, recorder)
	if report != nil {
		printReport(g.Out, report)
	}
	return err
}

func writeMetrics(cfg *config.Config, recorder *metrics.PrometheusRecorder) {
	if cfg.Metrics.TextfilePath == "" {
		return
	}
	if err := recorder.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.TextfilePath), logfields.Error(err))
	}
}

func printReport(w io.Writer, r *build.Report) {
	_, _ = fmt.Fprintf(w, "Build %s: %d page(s), %d asset(s) copied (%s), %d up to date, %d failed in %s\n",
		r.Status, r.PagesWritten, r.Copied, humanize.Bytes(uint64(r.BytesCopied)), // #nosec G115 -- never negative
		r.UpToDate, r.Failed, r.Duration.Round(time.Millisecond))
	for _, a := range r.Assets {
		if a.Err != nil {
			_, _ = fmt.Fprintf(w, "  failed: %s -> %s: %v\n", a.Task.Source, a.Task.Destination, a.Err)
		}
	}
}
