package build

import (
	"time"

	"git.home.luguber.info/inful/pagebuild/internal/assetsync"
)

// Status represents the outcome of a build execution.
type Status string

const (
	// StatusSuccess indicates every page and asset was handled.
	StatusSuccess Status = "success"

	// StatusWarning indicates pages were written but some assets failed to sync.
	StatusWarning Status = "warning"

	// StatusFailed indicates the build aborted.
	StatusFailed Status = "failed"

	// StatusCancelled indicates the build was cancelled.
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if the site is complete.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// Report contains the outcome of a build execution.
type Report struct {
	BuildID string
	Status  Status

	// OutputPath is the output root pages and assets were written under.
	OutputPath string

	// PagesWritten is the number of pages rendered and written.
	PagesWritten int

	// Stylesheets lists the unique stylesheet names referenced by the manifest.
	Stylesheets []string

	// Assets holds one entry per sync task, in plan order.
	Assets []assetsync.Result

	Copied      int
	UpToDate    int
	Failed      int
	BytesCopied int64

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

func (r *Report) finish(status Status) {
	r.Status = status
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

func (r *Report) tally(results []assetsync.Result) {
	r.Assets = results
	for _, a := range results {
		switch a.Outcome {
		case assetsync.OutcomeCopied:
			r.Copied++
			r.BytesCopied += a.Bytes
		case assetsync.OutcomeUpToDate:
			r.UpToDate++
		default:
			r.Failed++
		}
	}
}
