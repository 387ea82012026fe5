package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	pageRender    *prom.HistogramVec
	syncResults   *prom.CounterVec
	bytesCopied   prom.Counter
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the build metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "pagebuild",
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual build stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "pagebuild",
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.pageRender = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "pagebuild",
		Name:      "page_render_duration_seconds",
		Help:      "Duration of rendering and writing a single page",
		Buckets:   prom.DefBuckets,
	}, []string{"result"})
	pr.syncResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "pagebuild",
		Name:      "asset_sync_results_total",
		Help:      "Asset sync decisions by outcome",
	}, []string{"result"})
	pr.bytesCopied = prom.NewCounter(prom.CounterOpts{
		Namespace: "pagebuild",
		Name:      "asset_bytes_copied_total",
		Help:      "Bytes copied by the asset synchronizer",
	})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "pagebuild",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.pageRender, pr.syncResults, pr.bytesCopied, pr.buildOutcome)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePageRender(d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.pageRender.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSyncResult(result SyncResultLabel) {
	if p == nil {
		return
	}
	p.syncResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddBytesCopied(n int64) {
	if p == nil || n <= 0 {
		return
	}
	p.bytesCopied.Add(float64(n))
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
// prom.WriteToTextfile writes through a temp file and renames, so readers never see a partial file.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
