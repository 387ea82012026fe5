package metrics

import "time"

// SyncResultLabel enumerates asset sync outcomes for counters.
type SyncResultLabel string

const (
	SyncCopied   SyncResultLabel = "copied"
	SyncUpToDate SyncResultLabel = "up_to_date"
	SyncFailed   SyncResultLabel = "failed"
)

// BuildOutcomeLabel is the final status of a build run.
type BuildOutcomeLabel string

const (
	BuildSuccess BuildOutcomeLabel = "success"
	BuildWarning BuildOutcomeLabel = "warning" // pages written, some assets failed
	BuildFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for build, render and sync metrics.
// Implementations must be safe for concurrent use: assets sync in parallel.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	ObservePageRender(d time.Duration, success bool)
	IncSyncResult(result SyncResultLabel)
	AddBytesCopied(n int64)
	IncBuildOutcome(outcome BuildOutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) ObservePageRender(time.Duration, bool)      {}
func (NoopRecorder) IncSyncResult(SyncResultLabel)              {}
func (NoopRecorder) AddBytesCopied(int64)                       {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
