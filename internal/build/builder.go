package build

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/pagebuild/internal/assetsync"
	"git.home.luguber.info/inful/pagebuild/internal/config"
	"git.home.luguber.info/inful/pagebuild/internal/errors"
	"git.home.luguber.info/inful/pagebuild/internal/logfields"
	"git.home.luguber.info/inful/pagebuild/internal/manifest"
	"git.home.luguber.info/inful/pagebuild/internal/markdown"
	"git.home.luguber.info/inful/pagebuild/internal/metrics"
	"git.home.luguber.info/inful/pagebuild/internal/observability"
	"git.home.luguber.info/inful/pagebuild/internal/templates"
)

// Stage names used for logging and stage duration metrics.
const (
	StageManifest = "manifest"
	StageRender   = "render"
	StagePlan     = "plan"
	StageSync     = "sync"
)

// PageRenderer renders one manifest page.
type PageRenderer interface {
	RenderPage(page manifest.Page) ([]byte, error)
}

// RendererFactory creates the page renderer for a loaded manifest.
type RendererFactory func(m *manifest.Manifest) PageRenderer

// Builder runs the build pipeline for one Config.
type Builder struct {
	cfg             *config.Config
	recorder        metrics.Recorder
	syncer          *assetsync.Syncer
	rendererFactory RendererFactory
	newID           func() string
}

// New creates a Builder. The config is used as-is; callers validate it first.
func New(cfg *config.Config) *Builder {
	b := &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		rendererFactory: func(m *manifest.Manifest) PageRenderer {
			return templates.NewRenderer(markdown.NewRenderer(), m.Resolve)
		},
		newID: uuid.NewString,
	}
	b.syncer = assetsync.New(assetsync.WithConcurrency(cfg.Concurrency), assetsync.WithRecorder(b.recorder))
	return b
}

// WithRecorder sets the metrics recorder for the builder and its syncer.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	b.syncer = assetsync.New(assetsync.WithConcurrency(b.cfg.Concurrency), assetsync.WithRecorder(r))
	return b
}

// WithRendererFactory allows injecting a custom page renderer (for testing).
func (b *Builder) WithRendererFactory(f RendererFactory) *Builder {
	b.rendererFactory = f
	return b
}

// WithIDGenerator overrides how build IDs are generated.
func (b *Builder) WithIDGenerator(f func() string) *Builder {
	b.newID = f
	return b
}

// Run executes one build. The returned Report is non-nil whenever the build
// got far enough to be assigned an ID, including on error.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		BuildID:    b.newID(),
		OutputPath: b.cfg.OutputDir,
		StartTime:  time.Now(),
	}
	ctx = observability.WithBuildID(ctx, report.BuildID)

	observability.InfoContext(ctx, "Starting build",
		slog.String("manifest", b.cfg.Manifest),
		logfields.Destination(b.cfg.OutputDir))

	err := b.run(ctx, report)

	status := StatusSuccess
	outcome := metrics.BuildSuccess
	switch {
	case err != nil && ctx.Err() != nil:
		status, outcome = StatusCancelled, metrics.BuildFailed
	case err != nil:
		status, outcome = StatusFailed, metrics.BuildFailed
	case report.Failed > 0:
		status, outcome = StatusWarning, metrics.BuildWarning
	}
	report.finish(status)
	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(outcome)

	if err == nil && report.Failed > 0 && b.cfg.Strict {
		report.Status = StatusFailed
		err = errors.Wrap(ErrAssetsFailed, errors.CategoryIO, errors.SeverityError,
			fmt.Sprintf("%d asset(s) failed to sync", report.Failed)).
			WithContext("build_id", report.BuildID)
	}

	attrs := []slog.Attr{
		slog.String("status", string(report.Status)),
		slog.Int("pages", report.PagesWritten),
		slog.Int("copied", report.Copied),
		slog.Int("up_to_date", report.UpToDate),
		slog.Int("failed", report.Failed),
		logfields.Bytes(humanize.Bytes(uint64(report.BytesCopied))), // #nosec G115 -- byte counts are never negative
		logfields.DurationMS(float64(report.Duration.Milliseconds())),
	}
	if err != nil {
		observability.ErrorContext(ctx, "Build failed", append(attrs, logfields.Error(err))...)
		return report, err
	}
	observability.InfoContext(ctx, "Build completed", attrs...)
	return report, nil
}

func (b *Builder) run(ctx context.Context, report *Report) error {
	var m *manifest.Manifest
	if err := b.stage(ctx, StageManifest, func(ctx context.Context) error {
		loaded, err := manifest.Load(b.cfg.Manifest)
		if err != nil {
			return errors.ManifestError(b.cfg.Manifest, err)
		}
		m = loaded
		observability.DebugContext(ctx, "Manifest loaded", logfields.Count(len(m.Pages)))
		return nil
	}); err != nil {
		return err
	}

	if err := b.stage(ctx, StageRender, func(ctx context.Context) error {
		return b.renderPages(ctx, m, report)
	}); err != nil {
		return err
	}

	var plan *Plan
	if err := b.stage(ctx, StagePlan, func(ctx context.Context) error {
		report.Stylesheets = m.Stylesheets()
		p, err := PlanAssets(b.cfg, report.Stylesheets)
		if err != nil {
			return errors.Wrap(err, errors.CategoryValidation, errors.SeverityError, "plan assets")
		}
		for _, name := range p.Rejected {
			observability.WarnContext(ctx, "Skipping asset outside its root", logfields.Path(name))
		}
		plan = p
		return nil
	}); err != nil {
		return err
	}

	return b.stage(ctx, StageSync, func(ctx context.Context) error {
		results := b.syncer.SyncAll(ctx, plan.Tasks)
		report.tally(results)
		for _, r := range results {
			logAsset(ctx, r)
		}
		return ctx.Err()
	})
}

func (b *Builder) renderPages(ctx context.Context, m *manifest.Manifest, report *Report) error {
	renderer := b.rendererFactory(m)
	for i, page := range m.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		content, err := renderer.RenderPage(page)
		b.recorder.ObservePageRender(time.Since(start), err == nil)
		if err != nil {
			return errors.RenderFailed(page.Target, err).WithContext("page", i)
		}
		path, err := templates.WritePage(b.cfg.OutputDir, page.Target, content)
		if stdErrors.Is(err, templates.ErrInvalidTarget) {
			return errors.ManifestError(b.cfg.Manifest, err).
				WithContext("target", page.Target).
				WithContext("page", i)
		}
		if err != nil {
			return errors.IOFailure("write", page.Target, err)
		}
		report.PagesWritten++
		observability.DebugContext(ctx, "Page written",
			logfields.Page(i),
			logfields.Template(page.Template),
			logfields.Target(path))
	}
	return nil
}

func (b *Builder) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	b.recorder.ObserveStageDuration(name, d)
	observability.DebugContext(ctx, "Stage finished", logfields.DurationMS(float64(d.Milliseconds())))
	return err
}

func logAsset(ctx context.Context, r assetsync.Result) {
	switch r.Outcome {
	case assetsync.OutcomeCopied:
		observability.InfoContext(ctx, "Asset copied",
			logfields.Source(r.Task.Source),
			logfields.Destination(r.Task.Destination),
			logfields.Bytes(humanize.Bytes(uint64(r.Bytes)))) // #nosec G115 -- byte counts are never negative
	case assetsync.OutcomeUpToDate:
		observability.DebugContext(ctx, "Asset up to date",
			logfields.Source(r.Task.Source),
			logfields.Destination(r.Task.Destination))
	default:
		observability.ErrorContext(ctx, "Asset sync failed",
			logfields.Source(r.Task.Source),
			logfields.Destination(r.Task.Destination),
			logfields.Error(r.Err))
	}
}
