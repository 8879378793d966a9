package config

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/razanlang/razan/pkg/value"
)

type reload struct {
	doc *Document
	err error
}

func startWatcher(t *testing.T, path string) (*Watcher, <-chan reload) {
	t.Helper()
	reloads := make(chan reload, 8)
	w, err := NewWatcher(NewLoader(), path, func(doc *Document, err error) {
		reloads <- reload{doc, err}
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, reloads
}

func waitReload(t *testing.T, reloads <-chan reload) reload {
	t.Helper()
	select {
	case r := <-reloads:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return reload{}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "PORT is 1;")
	_, reloads := startWatcher(t, path)

	if err := os.WriteFile(path, []byte("PORT is 2;"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := waitReload(t, reloads)
	if r.err != nil {
		t.Fatalf("reload error: %v", r.err)
	}
	if v, _ := r.doc.Get("PORT"); !v.Equal(value.NewNumber(2)) {
		t.Errorf("PORT = %v, want 2", v)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "A is 1;")
	_, reloads := startWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-reloads:
		t.Fatalf("unexpected reload: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherReportsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "A is 1;")
	_, reloads := startWatcher(t, path)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	r := waitReload(t, reloads)
	if !errors.Is(r.err, fs.ErrNotExist) || r.doc != nil {
		t.Errorf("reload = %+v, want fs.ErrNotExist", r)
	}
}

func TestWatcherClose(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "A is 1;")
	w, _ := startWatcher(t, path)

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not stop")
	}
}

func TestWatcherStartTwice(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "A is 1;")
	w, _ := startWatcher(t, path)

	if err := w.Start(context.Background()); !errors.Is(err, ErrWatcherStarted) {
		t.Errorf("second Start: err = %v, want ErrWatcherStarted", err)
	}
}

func TestWatcherCloseBeforeStart(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "A is 1;")
	w, err := NewWatcher(NewLoader(), path, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-w.Done():
	default:
		t.Error("Done not closed after Close on an unstarted watcher")
	}

	if err := w.Start(context.Background()); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Start after Close: err = %v, want ErrWatcherClosed", err)
	}
}

func TestWatcherReloadTraced(t *testing.T) {
	var spans bytes.Buffer
	tel := newTracedTelemetry(t, &spans)

	path := writeConfig(t, t.TempDir(), "A is 1;")
	reloads := make(chan reload, 8)
	w, err := NewWatcher(NewLoader(WithTelemetry(tel)), path, func(doc *Document, err error) {
		reloads <- reload{doc, err}
	}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := os.WriteFile(path, []byte("A is 2;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := waitReload(t, reloads); r.err != nil {
		t.Fatalf("reload error: %v", r.err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := gathered(t, tel, "razan_reloads_total", map[string]string{"status": "success"}); got < 1 {
		t.Errorf("successful reloads = %v, want at least 1", got)
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	out := spans.String()
	for _, want := range []string{`"Name": "razan.reload"`, `"Name": "razan.load"`} {
		if !strings.Contains(out, want) {
			t.Errorf("span output missing %s", want)
		}
	}
}
