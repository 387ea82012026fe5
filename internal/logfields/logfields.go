package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID     = "build_id"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyPage        = "page"
	KeyTemplate    = "template"
	KeyTarget      = "target"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyOutcome     = "outcome"
	KeyBytes       = "bytes"
	KeyPath        = "path"
	KeyCount       = "count"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Page(index int) slog.Attr          { return slog.Int(KeyPage, index) }
func Template(path string) slog.Attr    { return slog.String(KeyTemplate, path) }
func Target(path string) slog.Attr      { return slog.String(KeyTarget, path) }
func Source(path string) slog.Attr      { return slog.String(KeySource, path) }
func Destination(path string) slog.Attr { return slog.String(KeyDestination, path) }
func Outcome(o string) slog.Attr        { return slog.String(KeyOutcome, o) }
func Bytes(human string) slog.Attr      { return slog.String(KeyBytes, human) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
