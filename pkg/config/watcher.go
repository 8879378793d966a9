package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/razanlang/razan/pkg/telemetry"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits after the last change
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrWatcherStarted is returned by Start on a watcher already running.
	ErrWatcherStarted = errors.New("watcher already started")

	// ErrWatcherClosed is returned by Start after Close.
	ErrWatcherClosed = errors.New("watcher closed")
)

// ReloadFunc receives the result of each reload. doc is nil when err is set.
type ReloadFunc func(doc *Document, err error)

// Watcher reloads a configuration file whenever it changes on disk.
type Watcher struct {
	loader   *Loader
	path     string
	debounce time.Duration
	logger   zerolog.Logger
	onReload ReloadFunc

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	closed  bool
	stopped chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(logger zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = telemetry.Component(logger, "watcher")
	}
}

// NewWatcher creates a watcher for path. Nothing is watched until Start.
func NewWatcher(loader *Loader, path string, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		loader:   loader,
		path:     abs,
		debounce: DefaultDebounce,
		logger:   zerolog.Nop(),
		onReload: onReload,
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the file's directory, so that editors replacing the file
// through a rename are still seen. It returns once the watch is in place;
// events are handled until ctx is done or Close is called. A watcher can be
// started once.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.fsw != nil {
		return ErrWatcherStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.fsw = fsw

	go w.processEvents(ctx, fsw)

	w.logger.Info().Str("path", w.path).Msg("Watching configuration file")
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.stopped)

	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Configuration file changed")
			w.schedule(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.reload(ctx)
	})
}

func (w *Watcher) reload(ctx context.Context) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	tel := w.loader.tel
	op := tel.Begin(ctx, telemetry.SpanReload, telemetry.AttrSource.String(w.path))
	doc, err := w.loader.Load(op.Context(), w.path)
	op.End(err)
	if tel != nil {
		tel.Metrics.RecordReload(err)
	}
	if err != nil {
		w.logger.Warn().Err(err).Str("path", w.path).Msg("Reload failed")
	} else {
		w.logger.Info().Str("path", w.path).Msg("Configuration reloaded")
	}

	if w.onReload != nil {
		w.onReload(doc, err)
	}
}

// Close stops watching. Pending reloads are cancelled. It is safe to call
// more than once, and before Start, in which case Done is closed at once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	if w.fsw == nil {
		close(w.stopped)
		return nil
	}
	return w.fsw.Close()
}

// Done is closed once the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.stopped
}
