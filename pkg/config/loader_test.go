package config

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/razanlang/razan/pkg/telemetry"
)

func newTestTelemetry(t *testing.T) *telemetry.Telemetry {
	t.Helper()
	return newTracedTelemetry(t, nil)
}

// newTracedTelemetry exports spans as JSON to spans when it is not nil.
func newTracedTelemetry(t *testing.T, spans io.Writer) *telemetry.Telemetry {
	t.Helper()
	cfg := telemetry.DefaultConfig()
	cfg.Logging = telemetry.LoggingConfig{Level: "error", Format: "json", Output: io.Discard}
	if spans != nil {
		cfg.Tracing.Exporter = telemetry.ExporterStdout
		cfg.Tracing.Output = spans
	}
	tel, err := telemetry.NewTelemetry(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewTelemetry: %v", err)
	}
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })
	return tel
}

// gathered returns the summed value of a counter or gauge family for the
// series whose labels include all of want.
func gathered(t *testing.T, tel *telemetry.Telemetry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := tel.Metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if want[lp.GetName()] == lp.GetValue() {
					matched++
				}
			}
			if matched != len(want) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			}
		}
	}
	return total
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	tel := newTestTelemetry(t)
	loader := NewLoader(WithTelemetry(tel))

	path := writeConfig(t, t.TempDir(), `# app
NAME is "razan";
PORT is 8080;
[feature]
ON is true;
broken line
`)

	doc, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Source != path {
		t.Errorf("Source = %q, want %q", doc.Source, path)
	}

	checks := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"razan_loads_total", map[string]string{"status": "success"}, 1},
		{"razan_values_evaluated_total", map[string]string{"kind": "string"}, 1},
		{"razan_values_evaluated_total", map[string]string{"kind": "number"}, 1},
		{"razan_values_evaluated_total", map[string]string{"kind": "bool"}, 1},
		{"razan_lines_skipped_total", map[string]string{"reason": "comment"}, 1},
		{"razan_lines_skipped_total", map[string]string{"reason": "malformed"}, 1},
		{"razan_sections", nil, 1},
	}
	for _, c := range checks {
		if got := gathered(t, tel, c.name, c.labels); got != c.want {
			t.Errorf("%s%v = %v, want %v", c.name, c.labels, got, c.want)
		}
	}
}

func TestLoaderLoadSpan(t *testing.T) {
	var spans bytes.Buffer
	tel := newTracedTelemetry(t, &spans)

	path := writeConfig(t, t.TempDir(), "A is 1;\n[s]\nB is 2;\n")
	if _, err := NewLoader(WithTelemetry(tel)).Load(context.Background(), path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	out := spans.String()
	for _, want := range []string{`"Name": "razan.load"`, `"razan.keys"`, `"razan.sections"`, path} {
		if !strings.Contains(out, want) {
			t.Errorf("span output missing %s:\n%s", want, out)
		}
	}
}

func TestLoaderLoadMissing(t *testing.T) {
	tel := newTestTelemetry(t)
	loader := NewLoader(WithTelemetry(tel))

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), FileName))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
	if got := gathered(t, tel, "razan_loads_total", map[string]string{"status": "error"}); got != 1 {
		t.Errorf("error loads = %v, want 1", got)
	}
}

func TestLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeConfig(t, t.TempDir(), "A is 1;")
	if _, err := NewLoader().Load(ctx, path); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLoaderWithoutTelemetry(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "A is 1;")

	doc, err := NewLoader(WithParser(testParser(nil))).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := doc.Get("A"); !ok {
		t.Error("A missing")
	}
}
