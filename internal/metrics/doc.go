// Package metrics provides build, render and asset-sync metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics never need nil checks at call sites:
//
//	recorder := metrics.NewPrometheusRecorder(nil)
//	builder := build.New(cfg).WithRecorder(recorder)
//
// Metrics are exported as a node-exporter textfile after each build when a
// textfile path is configured (see PrometheusRecorder.WriteTextfile).
package metrics
