package assetsync

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/pagebuild/internal/errors"
	"git.home.luguber.info/inful/pagebuild/internal/metrics"
)

// DefaultConcurrency bounds SyncAll when no limit is configured.
const DefaultConcurrency = 8

// Task is one (source, destination) unit of work.
type Task struct {
	Source      string
	Destination string
}

// Outcome is the decision taken for a Task.
type Outcome string

const (
	OutcomeCopied   Outcome = "copied"
	OutcomeUpToDate Outcome = "up_to_date"
	OutcomeFailed   Outcome = "failed"
)

// Result reports what happened to a single Task.
type Result struct {
	Task     Task
	Outcome  Outcome
	Bytes    int64
	Duration time.Duration
	Err      error
}

// Syncer performs Sync Tasks.
type Syncer struct {
	concurrency int
	recorder    metrics.Recorder
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithConcurrency limits how many tasks SyncAll runs at once. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *Syncer) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Syncer) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New creates a Syncer.
func New(opts ...Option) *Syncer {
	s := &Syncer{
		concurrency: DefaultConcurrency,
		recorder:    metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync copies task.Source to task.Destination unless the destination exists
// and is not older than the source.
//
// A missing source fails with an error matching errors.ErrNotFound and leaves
// the destination untouched. Failures creating directories or copying bytes
// match errors.ErrIO. A missing destination is never an error.
func (s *Syncer) Sync(ctx context.Context, task Task) (Result, error) {
	start := time.Now()
	res, err := s.sync(ctx, task)
	res.Task = task
	res.Duration = time.Since(start)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
	}

	s.recorder.IncSyncResult(metrics.SyncResultLabel(res.Outcome))
	s.recorder.AddBytesCopied(res.Bytes)
	return res, err
}

func (s *Syncer) sync(ctx context.Context, task Task) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	srcInfo, err := os.Stat(task.Source)
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return Result{}, errors.NotFound(task.Source, err)
		}
		return Result{}, errors.IOFailure("stat", task.Source, err)
	}
	if srcInfo.IsDir() {
		return Result{}, errors.IOFailure("open", task.Source, fmt.Errorf("%s is a directory", task.Source))
	}

	stale, err := needsCopy(srcInfo, task.Destination)
	if err != nil {
		return Result{}, err
	}
	if !stale {
		return Result{Outcome: OutcomeUpToDate}, nil
	}

	n, err := copyFile(task.Source, task.Destination, srcInfo)
	if err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeCopied, Bytes: n}, nil
}

// needsCopy reports whether dst is missing or strictly older than the source.
func needsCopy(srcInfo fs.FileInfo, dst string) (bool, error) {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, errors.IOFailure("stat", dst, err)
	}
	return dstInfo.ModTime().Before(srcInfo.ModTime()), nil
}

// copyFile streams src into a temp file next to dst and renames it into place.
func copyFile(src, dst string, srcInfo fs.FileInfo) (int64, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, errors.IOFailure("mkdir", dir, err)
	}

	// #nosec G304 -- src comes from the build plan, not user input.
	in, err := os.Open(src)
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return 0, errors.NotFound(src, err)
		}
		return 0, errors.IOFailure("open", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return 0, errors.IOFailure("create", dst, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, in)
	if err != nil {
		_ = tmp.Close()
		return 0, errors.IOFailure("write", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, errors.IOFailure("write", dst, err)
	}
	if err := os.Chmod(tmpName, srcInfo.Mode().Perm()); err != nil {
		return 0, errors.IOFailure("chmod", dst, err)
	}

	// A source stamped in the future would otherwise leave dst older than src.
	tmpInfo, err := os.Stat(tmpName)
	if err != nil {
		return 0, errors.IOFailure("stat", tmpName, err)
	}
	if tmpInfo.ModTime().Before(srcInfo.ModTime()) {
		if err := os.Chtimes(tmpName, time.Now(), srcInfo.ModTime()); err != nil {
			return 0, errors.IOFailure("chtimes", dst, err)
		}
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return 0, errors.IOFailure("rename", dst, err)
	}
	committed = true
	return n, nil
}

// SyncAll runs every task, at most the configured number at a time, and
// waits for all of them. A failed task never stops its siblings; results are
// returned in the order of tasks.
func (s *Syncer) SyncAll(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, task := range tasks {
		g.Go(func() error {
			results[i], _ = s.Sync(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
