package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("sync", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.ObservePageRender(10*time.Millisecond, true)
	pr.IncSyncResult(SyncCopied)
	pr.IncSyncResult(SyncCopied)
	pr.IncSyncResult(SyncUpToDate)
	pr.AddBytesCopied(2048)
	pr.AddBytesCopied(-1)
	pr.IncBuildOutcome(BuildSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.syncResults.WithLabelValues(string(SyncCopied))))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.syncResults.WithLabelValues(string(SyncUpToDate))))
	assert.Equal(t, 2048.0, testutil.ToFloat64(pr.bytesCopied))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues(string(BuildSuccess))))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncSyncResult(SyncFailed)
	pr.ObserveBuildDuration(time.Second)
	pr.IncBuildOutcome(BuildFailed)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncSyncResult(SyncFailed)

	path := filepath.Join(t.TempDir(), "pagebuild.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `pagebuild_asset_sync_results_total{result="failed"} 1`), string(data))
}
