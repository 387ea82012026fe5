package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b-1", BuildID("b-1")},
		{"Stage", KeyStage, "sync", Stage("sync")},
		{"Template", KeyTemplate, "t.tmpl", Template("t.tmpl")},
		{"Target", KeyTarget, "index.html", Target("index.html")},
		{"Source", KeySource, "a.css", Source("a.css")},
		{"Destination", KeyDestination, "out/a.css", Destination("out/a.css")},
		{"Outcome", KeyOutcome, "copied", Outcome("copied")},
		{"Bytes", KeyBytes, "1.2 kB", Bytes("1.2 kB")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	if a := Page(3); a.Key != KeyPage || a.Value.Int64() != 3 {
		t.Fatalf("Page attr mismatch: %v", a)
	}
	if a := Count(7); a.Key != KeyCount || a.Value.Int64() != 7 {
		t.Fatalf("Count attr mismatch: %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("DurationMS attr mismatch: %v", a)
	}
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("expected empty error value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("expected boom, got %q", a.Value.String())
	}
}
